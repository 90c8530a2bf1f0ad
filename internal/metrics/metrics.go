package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Ranking cache metrics
	RankingCacheHitsTotal      prometheus.CounterVec
	RankingCacheMissesTotal    prometheus.CounterVec
	RankingCacheRefreshesTotal prometheus.CounterVec
	RankingRefreshDuration     prometheus.HistogramVec
	RankingCacheStaleServes    prometheus.CounterVec

	// Feed metrics
	FeedGenerationTime prometheus.HistogramVec
	FeedRejectedTotal  prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the global metrics instance, registering all collectors on
// first use
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			RankingCacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ranking_cache_hits_total",
					Help: "Ranking cache reads served from a fresh snapshot",
				},
				[]string{"key"},
			),
			RankingCacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ranking_cache_misses_total",
					Help: "Ranking cache reads that found no fresh snapshot",
				},
				[]string{"key"},
			),
			RankingCacheRefreshesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ranking_cache_refreshes_total",
					Help: "Ranking source refreshes by outcome",
				},
				[]string{"key", "outcome"},
			),
			RankingRefreshDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "ranking_refresh_duration_seconds",
					Help:    "Latency of ranking source refreshes",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"key"},
			),
			RankingCacheStaleServes: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ranking_cache_stale_serves_total",
					Help: "Reads served a stale snapshot because refresh failed",
				},
				[]string{"key"},
			),
			FeedGenerationTime: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_seconds",
					Help:    "End-to-end featured feed assembly latency",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"feed"},
			),
			FeedRejectedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_rejected_total",
					Help: "Feed requests rejected by the gating policy",
				},
				[]string{"feed"},
			),
		}
	})
	return instance
}
