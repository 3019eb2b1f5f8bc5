package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/service"
)

func TestReadyReportsFailingCheck(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
	assert.Equal(t, "connection refused", body.Checks["redis"])
}

func TestReadyAllHealthy(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"skipped":  nil,
	})

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/health", nil)
	h.Health(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrometheusEndpoint(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, c.Writer.Status())

	metrics := service.NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/teachers", http.StatusOK, 10*time.Millisecond)
	metrics.RecordRegistration("created")

	c, w = newGinContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(metrics, nil).Prometheus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teacher_registrations_total")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
