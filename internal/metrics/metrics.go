// Package metrics defines the Prometheus collectors for sponsormatch.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sponsormatch",
			Name:      "searches_total",
			Help:      "Total number of brand searches scored",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sponsormatch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search scoring duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sponsormatch",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sponsormatch",
			Name:      "embedding_requests_total",
			Help:      "Total embedding provider requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sponsormatch",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sponsormatch",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AIFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sponsormatch",
			Name:      "ai_fallbacks_total",
			Help:      "Generative calls answered by the deterministic fallback",
		},
		[]string{"kind"}, // "analysis" / "campaign" / "image"
	)

	SocialSyncAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sponsormatch",
			Name:      "socialsync_attempts_total",
			Help:      "Social stats refresh fetch attempts by outcome",
		},
		[]string{"status"}, // "success" / "error"
	)
)

var registered bool

// Register registers all collectors with the default registry. Called
// once from the serve command; no init() registration.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(
		SearchesTotal,
		SearchDuration,
		SearchCacheTotal,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingCacheTotal,
		AIFallbacksTotal,
		SocialSyncAttemptsTotal,
	)
	registered = true
}
