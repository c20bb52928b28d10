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
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	corpusSearchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corpus_search_total",
			Help: "Total number of corpus search requests",
		},
		[]string{"status"},
	)

	corpusSearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "corpus_search_results",
			Help:    "Number of entries returned per search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	corpusEntriesSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "corpus_entries_saved_total",
			Help: "Total number of entries saved to the corpus",
		},
	)
)

// MetricsMiddleware collects Prometheus metrics for HTTP requests.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordSearch records the outcome and result size of a search request.
func RecordSearch(ok bool, results int) {
	status := "ok"
	if !ok {
		status = "error"
	}
	corpusSearchTotal.WithLabelValues(status).Inc()
	if ok {
		corpusSearchResults.Observe(float64(results))
	}
}

// RecordEntrySaved records a successful entry save.
func RecordEntrySaved() {
	corpusEntriesSaved.Inc()
}
