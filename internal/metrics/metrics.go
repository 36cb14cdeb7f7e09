// Package metrics provides Prometheus metrics for the news desk API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsdesk"

var (
	// IngestTotal counts ingestion requests by mode and outcome.
	IngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_total",
			Help:      "Total number of ingestion requests",
		},
		[]string{"mode", "outcome"},
	)

	// GenerationDuration measures content generation duration.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of article generation in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 90, 120, 180},
		},
		[]string{"mode"},
	)

	// GenerationErrors counts failed generations by reason.
	GenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_errors_total",
			Help:      "Total number of failed generations",
		},
		[]string{"mode", "reason"},
	)

	// GenerationFallbacks counts model outputs that could not be parsed.
	GenerationFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_fallbacks_total",
			Help:      "Total number of unparsable model outputs replaced by the fallback article",
		},
	)

	// InvalidationsTotal counts cache invalidation calls by status.
	InvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidations_total",
			Help:      "Total number of cache invalidation calls",
		},
		[]string{"status"},
	)

	// CacheLookups counts page cache lookups by result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of page cache lookups",
		},
		[]string{"result"},
	)

	// StoreErrors counts article store failures by operation.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of article store errors",
		},
		[]string{"operation"},
	)
)
