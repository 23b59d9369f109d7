package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcomes used as metric labels.
const (
	RenderOutcomeSuccess = "success"
	RenderOutcomeInvalid = "invalid"
	RenderOutcomeError   = "error"
)

// MetricsSnapshot is a lightweight summary for the status endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DocumentsRendered        uint64    `json:"documents_rendered"`
	DocumentsFailed          uint64    `json:"documents_failed"`
	AverageRenderDurationMs  float64   `json:"average_render_duration_ms"`
	FilesCleaned             uint64    `json:"files_cleaned"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	rendered        *prometheus.CounterVec
	renderDuration  prometheus.Observer
	cleaned         prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	renderSuccessCount   uint64
	renderFailureCount   uint64
	renderDurationTotal  uint64
	cleanedCount         uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	rendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_rendered_total",
		Help: "Document generation attempts by outcome",
	}, []string{"outcome"})

	renderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_render_seconds",
		Help:    "Time spent rendering and storing a document",
		Buckets: prometheus.DefBuckets,
	})

	cleaned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "documents_cleaned_total",
		Help: "Expired documents removed from storage",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, rendered, renderDuration, cleaned, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		rendered:        rendered,
		renderDuration:  renderDuration,
		cleaned:         cleaned,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveRender records one generation attempt.
func (m *MetricsService) ObserveRender(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.rendered.WithLabelValues(outcome).Inc()
	if outcome == RenderOutcomeSuccess {
		m.renderDuration.Observe(duration.Seconds())
		atomic.AddUint64(&m.renderSuccessCount, 1)
		atomic.AddUint64(&m.renderDurationTotal, uint64(duration.Nanoseconds()))
		return
	}
	atomic.AddUint64(&m.renderFailureCount, 1)
}

// RecordCleanup counts documents removed by the cleanup loop.
func (m *MetricsService) RecordCleanup(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.cleaned.Add(float64(removed))
	atomic.AddUint64(&m.cleanedCount, uint64(removed))
}

// Snapshot returns aggregated metrics suitable for status endpoints.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	rendered := atomic.LoadUint64(&m.renderSuccessCount)
	renderDuration := atomic.LoadUint64(&m.renderDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgRenderMs float64
	if rendered > 0 {
		avgRenderMs = float64(renderDuration) / float64(rendered) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DocumentsRendered:        rendered,
		DocumentsFailed:          atomic.LoadUint64(&m.renderFailureCount),
		AverageRenderDurationMs:  avgRenderMs,
		FilesCleaned:             atomic.LoadUint64(&m.cleanedCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
