// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists educational programs with their skill and
// career-outcome tags in SQLite and serves them to the matching engine.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/coursematch/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "catalog.db"
	lockFile = "ingest.lock"
)

var (
	// ErrProgramNotFound is returned when a program ID is not in the catalog.
	ErrProgramNotFound = errors.New("program not found")

	// ErrIngestLocked is returned when another ingest holds the lock past
	// the configured timeout.
	ErrIngestLocked = errors.New("catalog ingest already in progress")
)

// Store manages the catalog SQLite database.
type Store struct {
	db          *sql.DB
	dir         string
	seedDir     string
	maxResults  int
	lockTimeout time.Duration
}

// NewStore opens or creates the catalog database at dir/index/catalog.db
// and creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:          db,
		dir:         cfg.Dir,
		seedDir:     cfg.SeedDir,
		maxResults:  cfg.MaxResults,
		lockTimeout: cfg.LockTimeout,
	}
	if s.seedDir == "" {
		s.seedDir = filepath.Join(cfg.Dir, "seed")
	}
	if s.maxResults <= 0 {
		s.maxResults = 100
	}
	if s.lockTimeout <= 0 {
		s.lockTimeout = 10 * time.Second
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS programs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			institution TEXT NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			modality TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			duration_months INTEGER NOT NULL DEFAULT 0,
			tuition REAL NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT '',
			level TEXT NOT NULL DEFAULT '',
			entry_requirements TEXT NOT NULL DEFAULT '',
			university_rank INTEGER NOT NULL DEFAULT 0,
			source_file TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_programs_code ON programs(code) WHERE code <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_programs_name_institution ON programs(name, institution)`,
		`CREATE INDEX IF NOT EXISTS idx_programs_country ON programs(country)`,
		`CREATE TABLE IF NOT EXISTS skills (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS career_outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL UNIQUE COLLATE NOCASE,
			description TEXT NOT NULL DEFAULT '',
			average_salary REAL NOT NULL DEFAULT 0,
			salary_currency TEXT NOT NULL DEFAULT '',
			employment_rate REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS program_skills (
			program_id INTEGER NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
			skill_id INTEGER NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (program_id, skill_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_program_skills_skill ON program_skills(skill_id)`,
		`CREATE TABLE IF NOT EXISTS program_outcomes (
			program_id INTEGER NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
			outcome_id INTEGER NOT NULL REFERENCES career_outcomes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (program_id, outcome_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_program_outcomes_outcome ON program_outcomes(outcome_id)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			file TEXT PRIMARY KEY,
			file_mod_time TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
