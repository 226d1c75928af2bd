package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortify_http_requests_total",
			Help: "HTTP requests by method, route template, and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shortify_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	linksCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortify_links_created_total",
			Help: "Short links created, split by alias origin.",
		},
		[]string{"origin"},
	)

	redirectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortify_redirects_total",
			Help: "Successful redirect resolutions.",
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortify_cache_lookups_total",
			Help: "Resolution cache lookups by outcome (hit, miss, error).",
		},
		[]string{"outcome"},
	)
)

// Metrics records per-request Prometheus metrics. The route template is
// used instead of the raw path so /abc123 does not blow up cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func RecordLinkCreated(customAlias bool) {
	origin := "generated"
	if customAlias {
		origin = "alias"
	}
	linksCreatedTotal.WithLabelValues(origin).Inc()
}

func RecordRedirect() {
	redirectsTotal.Inc()
}

func RecordCacheLookup(outcome string) {
	cacheLookupsTotal.WithLabelValues(outcome).Inc()
}
