// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coursematch/pkg/types"
)

// ExportYAML writes the whole catalog to dir/index/export.yaml in the seed
// file layout, so the export can be ingested again. It returns the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	seed, err := s.exportSeed(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(seed)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes the whole catalog to dir/index/export.json and returns
// the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	seed, err := s.exportSeed(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) exportSeed(ctx context.Context) (*types.SeedFile, error) {
	programs, err := s.ListPrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return &types.SeedFile{Programs: programs}, nil
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, indexDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
