// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coursematch/pkg/types"
)

// QueryFile is the on-disk form of a saved ranking: the query plus a
// summary of what it returned. A learner can save a query and re-run it
// later against a refreshed catalog.
type QueryFile struct {
	Query   types.Query   `yaml:"query"`
	Results []SavedResult `yaml:"results,omitempty"`
	Summary QuerySummary  `yaml:"summary"`
}

// SavedResult records one recommendation of a saved ranking.
type SavedResult struct {
	ProgramID   int64   `yaml:"program_id"`
	Name        string  `yaml:"name"`
	Institution string  `yaml:"institution"`
	MatchScore  float64 `yaml:"match_score"`
}

// QuerySummary holds result statistics and a timestamp.
type QuerySummary struct {
	RequestID         string    `yaml:"request_id,omitempty"`
	TotalMatches      int       `yaml:"total_matches"`
	AverageMatchScore float64   `yaml:"average_match_score"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves q and a summary of resp to a YAML file.
func WriteQueryFile(path string, q types.Query, resp *types.Response) error {
	qf := QueryFile{
		Query: q,
		Summary: QuerySummary{
			RequestID:         resp.RequestID,
			TotalMatches:      resp.TotalMatches,
			AverageMatchScore: resp.Metadata.AverageMatchScore,
			Timestamp:         time.Now().UTC(),
		},
	}
	for _, r := range resp.Recommendations {
		qf.Results = append(qf.Results, SavedResult{
			ProgramID:   r.Program.ID,
			Name:        r.Program.Name,
			Institution: r.Program.Institution,
			MatchScore:  r.MatchScore,
		})
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a query from path. The file is either a saved
// QueryFile or a bare query document. Weights missing from the file keep
// their defaults.
func ReadQueryFile(path string) (types.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Query{}, fmt.Errorf("reading query file: %w", err)
	}

	var probe map[string]yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return types.Query{}, fmt.Errorf("parsing query file %s: %w", path, err)
	}

	q := types.NewQuery()
	if node, ok := probe["query"]; ok {
		err = node.Decode(&q)
	} else {
		err = yaml.Unmarshal(data, &q)
	}
	if err != nil {
		return types.Query{}, fmt.Errorf("parsing query file %s: %w", path, err)
	}
	return q, nil
}
