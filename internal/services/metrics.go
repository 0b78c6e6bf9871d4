package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the engine-level Prometheus series. HTTP-level series
// live in the logging middleware.
type Metrics struct {
	SearchRequests    *prometheus.CounterVec
	RecommendRequests *prometheus.CounterVec
	CacheHits         *prometheus.CounterVec
	RebuildDuration   prometheus.Histogram
	SnapshotItems     prometheus.Gauge
	SnapshotUsers     prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		SearchRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_search_requests_total",
			Help: "Search requests by outcome.",
		}, []string{"status"}),
		RecommendRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_recommend_requests_total",
			Help: "Recommendation requests by intent and outcome.",
		}, []string{"intent", "status"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_cache_hits_total",
			Help: "Result cache hits and misses by surface.",
		}, []string{"surface", "result"}),
		RebuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "discovery_snapshot_rebuild_seconds",
			Help:    "Time spent building a discovery snapshot.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		SnapshotItems: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "discovery_snapshot_items",
			Help: "Catalog size of the current snapshot.",
		}),
		SnapshotUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "discovery_snapshot_users",
			Help: "Users known to the current collaborative model.",
		}),
	}
}
