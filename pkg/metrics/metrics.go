package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowsync_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowsync_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ActivityLogFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flowsync_activity_log_failures_total",
		Help: "Activity log entries that could not be written.",
	})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flowsync_cache_hits_total",
		Help: "User profile cache hits.",
	})

	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flowsync_cache_misses_total",
		Help: "User profile cache misses.",
	})

	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flowsync_websocket_clients",
		Help: "Connected live activity feed clients.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		ActivityLogFailures,
		CacheHits,
		CacheMisses,
		WebsocketClients,
	)
}
