package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h http.Handler) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker("1.2.3", "google")
	h.SetReady(false)
	h.SetShuttingDown()

	code, body := serveHealth(t, h.LivenessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthChecker_Readiness(t *testing.T) {
	h := NewHealthChecker("1.2.3", "google")
	assert.True(t, h.IsReady())

	code, body := serveHealth(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	h.SetReady(false)
	code, body = serveHealth(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready", body["checks"].(map[string]any)["ready"])
}

func TestHealthChecker_ReadinessWhileShuttingDown(t *testing.T) {
	h := NewHealthChecker("1.2.3", "local")
	h.SetShuttingDown()

	code, body := serveHealth(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "shutting down", body["checks"].(map[string]any)["shutdown"])
}

func TestHealthChecker_Detailed(t *testing.T) {
	h := NewHealthChecker("1.2.3", "local")

	code, body := serveHealth(t, h.DetailedHealthHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "local", body["source"])
	assert.NotEmpty(t, body["uptime"])

	h.SetShuttingDown()
	code, body = serveHealth(t, h.DetailedHealthHandler())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "shutting down", body["status"])
}

func TestHealthChecker_RegisterHealthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthChecker("dev", "google").RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
