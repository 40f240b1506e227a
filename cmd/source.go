package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"

	"github.com/teemow/sheetexport/internal/config"
	"github.com/teemow/sheetexport/internal/drive"
	"github.com/teemow/sheetexport/internal/export"
	"github.com/teemow/sheetexport/internal/google"
	"github.com/teemow/sheetexport/internal/instrumentation"
	"github.com/teemow/sheetexport/internal/local"
	"github.com/teemow/sheetexport/internal/sheets"
)

// newCollector builds the Collector for the configured source.
// The returned cleanup function releases the source and is never nil.
func newCollector(ctx context.Context, cfg *config.Config, metrics *instrumentation.Metrics, logger *slog.Logger) (*export.Collector, func(), error) {
	switch cfg.Source.Type {
	case config.SourceGoogle:
		httpClient, err := google.NewHTTPClient(ctx, cfg.Source.CredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Google client: %w", err)
		}

		sheetsClient, err := sheets.NewClient(ctx, metrics, logger, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, nil, err
		}
		driveClient, err := drive.NewClient(ctx, metrics, logger, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, nil, err
		}

		return export.NewCollector(sheetsClient, driveClient, logger), func() {}, nil

	case config.SourceLocal:
		src, err := local.NewSource(cfg.Source.LocalDir, cfg.Source.TimeZone, logger)
		if err != nil {
			return nil, nil, err
		}

		cleanup := func() {
			if err := src.Close(); err != nil {
				logger.Warn("failed to close local source", "error", err)
			}
		}
		return export.NewSourceCollector(src, logger), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", cfg.Source.Type)
	}
}
