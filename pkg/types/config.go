// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CatalogConfig holds settings for the program catalog store.
type CatalogConfig struct {
	// Dir is the base directory for the catalog (contains index/).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// SeedDir holds the YAML seed files read by ingest.
	SeedDir string `json:"seed_dir" yaml:"seed_dir" mapstructure:"seed_dir"`

	// MaxResults is the default page size for catalog listings (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// LockTimeout bounds how long ingest waits for the ingest lock (default 10s).
	LockTimeout time.Duration `json:"lock_timeout" yaml:"lock_timeout" mapstructure:"lock_timeout"`
}

// EngineConfig holds settings for the matching engine.
type EngineConfig struct {
	// MinScore is the exclusive lower bound on totals kept in results (default 0.1).
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	// DefaultLimit applies when a request passes limit <= 0 (default 20).
	DefaultLimit int `json:"default_limit" yaml:"default_limit" mapstructure:"default_limit"`

	// MaxFeatures caps the similarity vocabulary (default 1000).
	MaxFeatures int `json:"max_features" yaml:"max_features" mapstructure:"max_features"`

	// Workers bounds parallel scoring; 0 uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// FewMatches, LowBudget and LowScore are the thresholds behind the
	// advisory suggestions (defaults 5, 10000, 0.3).
	FewMatches int     `json:"few_matches" yaml:"few_matches" mapstructure:"few_matches"`
	LowBudget  float64 `json:"low_budget" yaml:"low_budget" mapstructure:"low_budget"`
	LowScore   float64 `json:"low_score" yaml:"low_score" mapstructure:"low_score"`

	// Alternatives is the number of similar programs attached to each
	// recommendation (default 3).
	Alternatives int `json:"alternatives" yaml:"alternatives" mapstructure:"alternatives"`
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinScore:     0.1,
		DefaultLimit: 20,
		MaxFeatures:  1000,
		FewMatches:   5,
		LowBudget:    10000,
		LowScore:     0.3,
		Alternatives: 3,
	}
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error). Default info.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" (default) or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all coursematch settings.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Engine  EngineConfig  `json:"engine" yaml:"engine" mapstructure:"engine"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
