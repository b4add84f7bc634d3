// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Candidate outcome labels.
const (
	labelMatched        = "matched"
	labelBelowThreshold = "below_threshold"
	labelDegraded       = "degraded"
)

// Metrics holds the engine's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RankRequests  prometheus.Counter
	RankErrors    prometheus.Counter
	RankDuration  prometheus.Histogram
	Candidates    *prometheus.CounterVec
	Refreshes     *prometheus.CounterVec
	SnapshotSize  prometheus.Gauge
	SnapshotTerms prometheus.Gauge
}

// NewMetrics registers the engine collectors on a new registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RankRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "coursematch_rank_requests_total",
			Help: "Total number of ranking requests",
		}),
		RankErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "coursematch_rank_errors_total",
			Help: "Total number of ranking requests that returned an error",
		}),
		RankDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coursematch_rank_duration_seconds",
			Help:    "Ranking request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		Candidates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coursematch_candidates_total",
			Help: "Scored candidates by outcome (matched, below_threshold, degraded)",
		}, []string{"outcome"}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coursematch_refresh_total",
			Help: "Catalog snapshot refreshes by result (success, error)",
		}, []string{"result"}),
		SnapshotSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "coursematch_snapshot_programs",
			Help: "Number of programs in the current snapshot",
		}),
		SnapshotTerms: f.NewGauge(prometheus.GaugeOpts{
			Name: "coursematch_snapshot_vocabulary_terms",
			Help: "Vocabulary size of the current similarity index",
		}),
	}
}

// Registry returns the registry holding the engine collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
