package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/sheetexport/internal/logging"
)

// Collector walks spreadsheets and folders and accumulates their sheets as CSV.
// A Collector holds no per-request state and may be shared between requests.
type Collector struct {
	reader SpreadsheetReader
	lister FolderLister
	logger *slog.Logger
}

// NewCollector creates a Collector.
// lister may be nil when the source cannot enumerate folders; collecting a
// folder then fails. A nil logger uses slog.Default().
func NewCollector(reader SpreadsheetReader, lister FolderLister, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		reader: reader,
		lister: lister,
		logger: logging.WithOperation(logger, "export.collect"),
	}
}

// NewSourceCollector creates a Collector reading from a single Source.
func NewSourceCollector(source Source, logger *slog.Logger) *Collector {
	return NewCollector(source, source, logger)
}

// Collect reads every file ID in order, then walks every folder ID in order.
//
// The first failing call aborts the collection; no partial result is returned.
func (c *Collector) Collect(ctx context.Context, fileIDs, folderIDs []string) (*Result, error) {
	if c.reader == nil {
		return nil, fmt.Errorf("spreadsheet reader is required")
	}

	start := time.Now()
	res := NewResult()

	for _, id := range fileIDs {
		if err := c.collectSpreadsheet(ctx, res, id); err != nil {
			return nil, err
		}
	}

	for _, id := range folderIDs {
		if err := c.collectFolder(ctx, res, id); err != nil {
			return nil, err
		}
	}

	stats := res.Stats()
	c.logger.Debug("collection finished",
		slog.Int("entries", res.Len()),
		slog.Int("spreadsheets", stats.Spreadsheets),
		slog.Int("folders", stats.Folders),
		slog.Int("overwrites", stats.Overwrites),
		slog.Duration(logging.KeyDuration, time.Since(start)))

	return res, nil
}

func (c *Collector) collectSpreadsheet(ctx context.Context, res *Result, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	spreadsheet, err := c.reader.OpenSpreadsheet(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet %s: %w", id, err)
	}

	res.stats.Spreadsheets++
	loc := Location(spreadsheet.TimeZone)

	for i := range spreadsheet.Sheets {
		sheet := &spreadsheet.Sheets[i]
		if sheet.Hidden() {
			res.stats.HiddenSheets++
			continue
		}

		res.stats.Sheets++
		if res.Set(sheet.Name, SheetCSV(sheet, loc)) {
			res.stats.Overwrites++
			c.logger.Debug("sheet name collision, keeping latest",
				slog.String("sheet", sheet.Name),
				slog.String("spreadsheet", id))
		}
	}

	c.logger.Debug("spreadsheet collected",
		slog.String("spreadsheet", id),
		slog.String("timezone", loc.String()),
		slog.Int("sheets", len(spreadsheet.Sheets)))

	return nil
}

// collectFolder processes the folder's direct spreadsheets, then recurses into
// its subfolders. Folder graphs are assumed to be acyclic.
func (c *Collector) collectFolder(ctx context.Context, res *Result, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.lister == nil {
		return fmt.Errorf("failed to read folder %s: source does not support folders", id)
	}

	files, err := c.lister.ListSpreadsheets(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list spreadsheets in folder %s: %w", id, err)
	}

	res.stats.Folders++
	c.logger.Debug("folder listed", slog.String("folder", id), slog.Int("spreadsheets", len(files)))

	for _, file := range files {
		if err := c.collectSpreadsheet(ctx, res, file.ID); err != nil {
			return err
		}
	}

	folders, err := c.lister.ListFolders(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list subfolders of folder %s: %w", id, err)
	}

	for _, folder := range folders {
		if err := c.collectFolder(ctx, res, folder.ID); err != nil {
			return err
		}
	}

	return nil
}

// SheetCSV renders a sheet as CSV text: cells joined with commas, rows joined
// with newlines, no trailing newline.
func SheetCSV(sheet *Sheet, loc *time.Location) string {
	var b strings.Builder
	for i, row := range sheet.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Serialize(cell, loc))
		}
	}
	return b.String()
}
