package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/sheetexport/internal/config"
	"github.com/teemow/sheetexport/internal/instrumentation"
	"github.com/teemow/sheetexport/internal/server"
)

// metricsStartTimeout bounds how long serve waits for the metrics listener.
const metricsStartTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP export server",
		Long: `Start the HTTP export server.

Requests to / or /exec must carry the configured password:

  GET /exec?password=...&fileIds=<spreadsheet id>&folderIds=<folder id>

The response is the base64 encoded ZIP archive as text/plain, one
<sheet>.csv entry per sheet. Sheets whose name starts with '#' are skipped.

Configuration:
  The password is read from server.password in the config file or the
  SHEETEXPORT_PASSWORD environment variable. The server refuses to start
  without one.

  Prometheus metrics are served on --metrics-addr (default :9090).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().String("addr", ":8080", "HTTP listen address")
	cmd.Flags().String("password", "", "export password (prefer SHEETEXPORT_PASSWORD)")
	cmd.Flags().String("archive-name", "", "archive name advertised in X-Archive-Name")
	cmd.Flags().Bool("metrics", true, "serve Prometheus metrics on a dedicated address")
	cmd.Flags().String("metrics-addr", server.DefaultMetricsAddr, "metrics listen address")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger

	if err := cfg.RequirePassword(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting sheetexport", append([]any{"version", version}, cfg.LogAttrs()...)...)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during instrumentation shutdown", "error", err)
		}
	}()

	if cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err := startMetricsServer(cfg, provider, a)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("error during metrics server shutdown", "error", err)
			}
		}()
	}

	collector, cleanup, err := newCollector(ctx, cfg, provider.Metrics(), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	exportHandler, err := server.NewExportHandler(server.ExportHandlerConfig{
		Collector:   collector,
		Password:    cfg.Server.Password,
		ArchiveName: cfg.Export.ArchiveName,
		Source:      cfg.Source.Type,
		SplitIDs:    cfg.Source.Type == config.SourceGoogle,
		Metrics:     provider.Metrics(),
		Audit:       instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
		ShutdownTimeout:   cfg.ShutdownTimeout(),
		Export:            exportHandler,
		Health:            server.NewHealthChecker(version, cfg.Source.Type),
		Metrics:           provider.Metrics(),
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx, nil)
}

func startMetricsServer(cfg *config.Config, provider *instrumentation.Provider, a *app) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.Metrics.Addr,
		InstrumentationProvider: provider,
		Logger:                  a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err, ok := <-metricsErr:
		if !ok {
			return nil, fmt.Errorf("metrics server stopped during startup")
		}
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(metricsStartTimeout):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}
