package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_provider_calls_total",
			Help: "Calls to external search and reasoning providers",
		},
		[]string{"provider", "status"},
	)

	ProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "veritas_provider_duration_seconds",
			Help:    "External provider call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_verdict_cache_lookups_total",
			Help: "Verdict cache lookups by result",
		},
		[]string{"result"},
	)

	Verdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_verdicts_total",
			Help: "Claim verdicts by status and method",
		},
		[]string{"status", "method"},
	)

	Assessments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veritas_assessments_total",
			Help: "Document assessments by outcome",
		},
		[]string{"outcome"},
	)

	FusedScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "veritas_fused_score",
			Help:    "Distribution of final document scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ProviderCalls,
			ProviderDuration,
			CacheLookups,
			Verdicts,
			Assessments,
			FusedScore,
		)
	})
}
