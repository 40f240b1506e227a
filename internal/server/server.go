package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/teemow/sheetexport/internal/instrumentation"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 120 * time.Second
)

// Config configures the export HTTP server.
type Config struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	Export *ExportHandler
	Health *HealthChecker

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// Server is the export HTTP server.
type Server struct {
	config  Config
	handler http.Handler
	logger  *slog.Logger

	mu   sync.Mutex
	addr string
}

// New creates a Server. Export and Health are required.
func New(config Config) (*Server, error) {
	if config.Export == nil {
		return nil, fmt.Errorf("export handler is required")
	}
	if config.Health == nil {
		return nil, fmt.Errorf("health checker is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", config.Export)
	mux.Handle("GET /exec", config.Export)
	config.Health.RegisterHealthEndpoints(mux)

	return &Server{
		config:  config,
		handler: RequestID(Instrument(mux, config.Metrics, config.Logger)),
		logger:  config.Logger,
		addr:    config.Addr,
	}, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address, or the bound address once Run is serving.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves until ctx is canceled, then drains in-flight requests for up to
// the shutdown timeout. ready, if not nil, is closed once the listener is
// bound.
func (s *Server) Run(ctx context.Context, ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		IdleTimeout:       defaultIdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	s.logger.Info("export server listening", "addr", ln.Addr().String())
	if ready != nil {
		close(ready)
	}

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, stopping export server")
		s.config.Health.SetShuttingDown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down export server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("export server stopped with error: %w", err)
		}
	}

	s.logger.Info("export server stopped")
	return nil
}
