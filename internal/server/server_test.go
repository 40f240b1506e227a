package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/sheetexport/internal/export"
)

func newTestServer(t *testing.T, collector Collector, addr string) *Server {
	t.Helper()

	h, err := NewExportHandler(ExportHandlerConfig{
		Collector: collector,
		Password:  testPassword,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	srv, err := New(Config{
		Addr:            addr,
		ShutdownTimeout: 5 * time.Second,
		Export:          h,
		Health:          NewHealthChecker("test", "google"),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return srv
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Health: NewHealthChecker("", "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export handler is required")

	h, err := NewExportHandler(ExportHandlerConfig{Collector: &fakeCollector{}})
	require.NoError(t, err)
	_, err = New(Config{Export: h})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health checker is required")
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t, &fakeCollector{result: testResult()}, ":0")
	query := "?" + url.Values{ParamPassword: {testPassword}}.Encode()

	tests := []struct {
		method string
		target string
		code   int
	}{
		{http.MethodGet, "/" + query, http.StatusOK},
		{http.MethodGet, "/exec" + query, http.StatusOK},
		{http.MethodGet, "/exec", http.StatusForbidden},
		{http.MethodPost, "/exec" + query, http.StatusMethodNotAllowed},
		{http.MethodGet, "/other" + query, http.StatusNotFound},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
		})
	}
}

func TestServer_RunAndShutdown(t *testing.T) {
	srv := newTestServer(t, &fakeCollector{result: testResult()}, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, ready) }()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server startup timed out")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/exec?" + url.Values{
		ParamPassword: {testPassword},
		ParamFileIDs:  {"S1"},
	}.Encode())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	zr, err := export.DecodeArchive(body)
	require.NoError(t, err)
	assert.Len(t, zr.File, 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunListenError(t *testing.T) {
	srv := newTestServer(t, &fakeCollector{}, "not-an-address")

	err := srv.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
