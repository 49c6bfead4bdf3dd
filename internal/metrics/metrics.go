// Package metrics provides Prometheus metrics for the hotcore engine.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Store operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Optimistic concurrency metrics
	ConflictRetriesTotal  prometheus.Counter
	RetriesExhaustedTotal prometheus.Counter

	// Search metrics
	SearchQueriesTotal prometheus.Counter
	SearchResultsTotal prometheus.Counter
	EphemeralSetsTotal prometheus.Counter
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Default returns the process-wide metrics set, registering it on first use.
// Collectors register against the default registry, so construction must
// happen exactly once per process.
func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

func newMetrics() *Metrics {
	m := &Metrics{}

	m.OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotcore_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "status"},
	)

	m.OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotcore_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	m.ConflictRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcore_conflict_retries_total",
			Help: "Total number of optimistic concurrency conflicts that triggered a retry",
		},
	)

	m.RetriesExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcore_retries_exhausted_total",
			Help: "Total number of operations abandoned after exhausting the retry bound",
		},
	)

	m.SearchQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcore_search_queries_total",
			Help: "Total number of find operations",
		},
	)

	m.SearchResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcore_search_results_total",
			Help: "Total number of entities returned by find operations",
		},
	)

	m.EphemeralSetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcore_ephemeral_sets_total",
			Help: "Total number of ephemeral union sets created by wildcard search",
		},
	)

	return m
}

// RecordOperation records a completed store operation.
func (m *Metrics) RecordOperation(operation, status string, duration time.Duration) {
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
