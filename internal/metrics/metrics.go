package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid; every Record method is then a no-op.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Analysis metrics
	AnalysisResults *prometheus.CounterVec
	LLMDuration     *prometheus.HistogramVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	DatasetReloads *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		AnalysisResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_results_total",
				Help: "Analysis and matching results by operation and producing path",
			},
			[]string{"operation", "source"}, // source: ai, fallback
		),
		LLMDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "LLM provider call latency in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"operation", "outcome"}, // outcome: ok, error
		),

		CacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "result_cache_hits_total",
				Help: "Total number of result cache hits",
			},
			[]string{"operation"},
		),
		CacheMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "result_cache_misses_total",
				Help: "Total number of result cache misses",
			},
			[]string{"operation"},
		),

		DatasetReloads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_reloads_total",
				Help: "Dataset reload attempts by status",
			},
			[]string{"status"}, // success, failed
		),
	}
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath() // route pattern, e.g. /api/creators/:id
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// RecordResult counts one analysis result by the path that produced it.
func (m *Metrics) RecordResult(operation, source string) {
	if m == nil {
		return
	}
	m.AnalysisResults.WithLabelValues(operation, source).Inc()
}

// RecordLLMCall records the latency of one provider call.
func (m *Metrics) RecordLLMCall(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.LLMDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// RecordCache counts a result cache lookup.
func (m *Metrics) RecordCache(operation string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues(operation).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(operation).Inc()
}

// RecordDatasetReload counts a reload attempt.
func (m *Metrics) RecordDatasetReload(success bool) {
	if m == nil {
		return
	}
	status := "failed"
	if success {
		status = "success"
	}
	m.DatasetReloads.WithLabelValues(status).Inc()
}
