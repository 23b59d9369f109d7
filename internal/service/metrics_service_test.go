package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesDocumentCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodPost, "/api/research/generate", http.StatusOK, 20*time.Millisecond)
	metrics.ObserveRender(RenderOutcomeSuccess, 10*time.Millisecond)
	metrics.ObserveRender(RenderOutcomeInvalid, time.Millisecond)
	metrics.RecordCleanup(3)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `documents_rendered_total{outcome="success"} 1`)
	assert.Contains(t, string(body), `documents_rendered_total{outcome="invalid"} 1`)
	assert.Contains(t, string(body), "document_render_seconds_count 1")
	assert.Contains(t, string(body), "documents_cleaned_total 3")

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.Equal(t, uint64(1), snap.DocumentsRendered)
	assert.Equal(t, uint64(1), snap.DocumentsFailed)
	assert.InDelta(t, 10, snap.AverageRenderDurationMs, 0.001)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveRender(RenderOutcomeError, time.Second)
	metrics.RecordCleanup(1)
	assert.Equal(t, MetricsSnapshot{}, metrics.Snapshot())

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
