// Package metrics provides Prometheus metrics for newsanchor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TierAttempts counts retrieval tier attempts by outcome.
	TierAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsanchor",
			Name:      "retrieval_tier_attempts_total",
			Help:      "Retrieval tier attempts by tier and outcome (ok, empty, error)",
		},
		[]string{"tier", "outcome"},
	)

	// TierDuration measures how long each upstream tier took.
	TierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsanchor",
			Name:      "retrieval_tier_duration_seconds",
			Help:      "Duration of retrieval tier fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tier"},
	)

	// CacheLookups counts freshness cache reads by backend and result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsanchor",
			Name:      "cache_lookups_total",
			Help:      "Freshness cache lookups by backend and result (hit, miss, stale, corrupt)",
		},
		[]string{"backend", "result"},
	)

	// ContextSyncs counts live prompt rewrites of conversation contexts.
	ContextSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsanchor",
			Name:      "context_syncs_total",
			Help:      "Live prompt synchronizations by result (rewritten, skipped)",
		},
		[]string{"result"},
	)

	// ActiveConversations tracks registered conversation contexts.
	ActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "newsanchor",
			Name:      "active_conversations",
			Help:      "Number of conversation contexts currently registered",
		},
	)
)

// RecordTier records one tier attempt.
func RecordTier(tier, outcome string, seconds float64) {
	TierAttempts.WithLabelValues(tier, outcome).Inc()
	TierDuration.WithLabelValues(tier).Observe(seconds)
}

func RecordCacheLookup(backend, result string) {
	CacheLookups.WithLabelValues(backend, result).Inc()
}

func RecordSync(rewritten bool) {
	if rewritten {
		ContextSyncs.WithLabelValues("rewritten").Inc()
		return
	}
	ContextSyncs.WithLabelValues("skipped").Inc()
}
