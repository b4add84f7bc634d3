// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match ranks catalog programs against a learner's preferences.
//
// An Engine holds an immutable snapshot of the catalog and its content
// similarity index. Refresh replaces the snapshot atomically; Rank reads
// whichever snapshot is current when it starts and never mutates it, so
// any number of Rank calls may run concurrently with each other and with
// a Refresh.
package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/coursematch/internal/logging"
	"github.com/pdiddy/coursematch/internal/similarity"
	"github.com/pdiddy/coursematch/pkg/types"
)

// ErrNotInitialized is returned by Rank before the first successful Refresh.
var ErrNotInitialized = errors.New("match engine not initialized: call Refresh first")

// Source supplies the catalog programs the engine ranks.
type Source interface {
	ListPrograms(ctx context.Context) ([]types.Program, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]types.Program, error)

// ListPrograms calls f.
func (f SourceFunc) ListPrograms(ctx context.Context) ([]types.Program, error) {
	return f(ctx)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The engine adds component=match.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the collectors the engine reports to.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// snapshot is one immutable view of the catalog.
type snapshot struct {
	programs []types.Program
	index    *similarity.Index
	version  int
	builtAt  time.Time
}

// SnapshotInfo describes the current snapshot.
type SnapshotInfo struct {
	Programs   int       `json:"programs"`
	Vocabulary int       `json:"vocabulary"`
	Version    int       `json:"version"`
	BuiltAt    time.Time `json:"built_at"`
}

// Engine scores and ranks programs. Create one with NewEngine and call
// Refresh before Rank.
type Engine struct {
	cfg     types.EngineConfig
	src     Source
	log     zerolog.Logger
	metrics *Metrics

	refreshMu sync.Mutex
	snap      atomic.Pointer[snapshot]
}

// NewEngine returns an engine reading programs from src. MinScore,
// DefaultLimit, MaxFeatures and the suggestion thresholds take their
// defaults when not positive. Negative Workers and Alternatives are treated
// as zero, and zero Alternatives attaches none.
func NewEngine(cfg types.EngineConfig, src Source, opts ...Option) *Engine {
	def := types.DefaultEngineConfig()
	if cfg.MinScore <= 0 {
		cfg.MinScore = def.MinScore
	}
	if cfg.FewMatches <= 0 {
		cfg.FewMatches = def.FewMatches
	}
	if cfg.LowBudget <= 0 {
		cfg.LowBudget = def.LowBudget
	}
	if cfg.LowScore <= 0 {
		cfg.LowScore = def.LowScore
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = def.MaxFeatures
	}
	if cfg.Alternatives < 0 {
		cfg.Alternatives = 0
	}
	if cfg.Workers < 0 {
		cfg.Workers = 0
	}

	e := &Engine{cfg: cfg, src: src, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics()
	}
	e.log = logging.Component(e.log, "match")
	return e
}

// Metrics returns the engine's collectors.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Refresh loads the catalog from the source, builds a new similarity index
// and swaps the snapshot in. Concurrent refreshes run one at a time. On
// error the previous snapshot stays current.
func (e *Engine) Refresh(ctx context.Context) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	start := time.Now()
	programs, err := e.src.ListPrograms(ctx)
	if err != nil {
		e.metrics.Refreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("loading catalog: %w", err)
	}
	if err := ctx.Err(); err != nil {
		e.metrics.Refreshes.WithLabelValues("error").Inc()
		return err
	}

	docs := make([]string, len(programs))
	for i := range programs {
		docs[i] = similarity.ProgramDocument(programs[i])
	}
	idx := similarity.Build(docs, similarity.Options{MaxFeatures: e.cfg.MaxFeatures})

	version := 1
	if prev := e.snap.Load(); prev != nil {
		version = prev.version + 1
	}
	e.snap.Store(&snapshot{
		programs: programs,
		index:    idx,
		version:  version,
		builtAt:  time.Now(),
	})

	e.metrics.Refreshes.WithLabelValues("success").Inc()
	e.metrics.SnapshotSize.Set(float64(len(programs)))
	e.metrics.SnapshotTerms.Set(float64(idx.VocabularySize()))
	e.log.Info().
		Int("programs", len(programs)).
		Int("vocabulary", idx.VocabularySize()).
		Int("version", version).
		Dur("took", time.Since(start)).
		Msg("catalog snapshot built")
	return nil
}

// Snapshot reports on the current snapshot. The second result is false
// before the first successful Refresh.
func (e *Engine) Snapshot() (SnapshotInfo, bool) {
	s := e.snap.Load()
	if s == nil {
		return SnapshotInfo{}, false
	}
	return SnapshotInfo{
		Programs:   len(s.programs),
		Vocabulary: s.index.VocabularySize(),
		Version:    s.version,
		BuiltAt:    s.builtAt,
	}, true
}
