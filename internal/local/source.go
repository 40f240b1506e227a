package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/teemow/sheetexport/internal/export"
	"github.com/teemow/sheetexport/internal/logging"
)

// Extensions are the workbook file extensions the source lists.
var Extensions = []string{".xlsx", ".xlsm"}

// lockFilePrefix marks the lock files Excel writes next to open workbooks.
const lockFilePrefix = "~$"

// Source reads workbooks below a root directory.
type Source struct {
	root     *os.Root
	dir      string
	timeZone string
	logger   *slog.Logger
}

var _ export.Source = (*Source)(nil)

// NewSource opens dir as the source root.
// timezone is reported as the timezone of every workbook; empty means UTC.
func NewSource(dir, timezone string, logger *slog.Logger) (*Source, error) {
	if dir == "" {
		return nil, fmt.Errorf("local source directory is required")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local source %s: %w", dir, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Source{
		root:     root,
		dir:      dir,
		timeZone: timezone,
		logger:   logging.WithService(logger, "local"),
	}, nil
}

// Close releases the root directory.
func (s *Source) Close() error {
	return s.root.Close()
}

// resolve converts a slash-separated ID into a name relative to the root.
func resolve(id string) (string, error) {
	if id == "" {
		id = "."
	}
	name := filepath.FromSlash(id)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: path %q is outside the source root", export.ErrNotFound, id)
	}
	return filepath.Clean(name), nil
}

// mapError classifies filesystem errors with the export sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", export.ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", export.ErrPermissionDenied, err)
	default:
		return err
	}
}

// OpenSpreadsheet reads every sheet of the workbook at id.
func (s *Source) OpenSpreadsheet(ctx context.Context, id string) (*export.Spreadsheet, error) {
	name, err := resolve(id)
	if err != nil {
		return nil, err
	}

	f, err := s.root.Open(name)
	if err != nil {
		return nil, mapError(err)
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", id, err)
	}
	defer func() {
		if err := wb.Close(); err != nil {
			s.logger.Debug("failed to close workbook", logging.Spreadsheet(id), logging.Err(err))
		}
	}()

	loc := export.Location(s.timeZone)
	title := strings.TrimSuffix(path.Base(filepath.ToSlash(name)), path.Ext(name))
	out := &export.Spreadsheet{ID: id, Title: title, TimeZone: s.timeZone}

	props, err := wb.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook properties of %s: %w", id, err)
	}

	r := &workbookReader{
		wb:     wb,
		loc:    loc,
		styles: make(map[int]bool),
	}
	if props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}

	for _, sheetName := range wb.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sheet, err := r.readSheet(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheetName, id, err)
		}
		out.Sheets = append(out.Sheets, sheet)
	}

	s.logger.Debug("workbook read", logging.Spreadsheet(id), slog.Int("sheets", len(out.Sheets)))
	return out, nil
}

// workbookReader converts the sheets of one open workbook.
type workbookReader struct {
	wb  *excelize.File
	loc *time.Location

	// date1904 selects the 1904 date system for serial numbers
	date1904 bool

	// styles caches whether a style ID is a date format
	styles map[int]bool
}

// readSheet converts one worksheet.
func (r *workbookReader) readSheet(sheetName string) (export.Sheet, error) {
	raw, err := r.wb.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return export.Sheet{}, err
	}

	grid := make([][]export.Cell, len(raw))
	for i, row := range raw {
		cells := make([]export.Cell, len(row))
		for c, value := range row {
			if value == "" {
				cells[c] = export.Empty()
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(c+1, i+1)
			if err != nil {
				return export.Sheet{}, err
			}
			cells[c] = r.readCell(sheetName, cellName, value)
		}
		grid[i] = cells
	}

	return export.Sheet{Name: sheetName, Rows: export.Rectangular(trimEmptyCells(grid))}, nil
}

// trimEmptyCells drops trailing empty cells so Rectangular sees the used range.
func trimEmptyCells(grid [][]export.Cell) [][]export.Cell {
	for i, row := range grid {
		end := len(row)
		for end > 0 && row[end-1].IsEmpty() {
			end--
		}
		grid[i] = row[:end]
	}
	return grid
}

// isoDateLayouts are tried in order for ISO 8601 date cells.
var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (r *workbookReader) readCell(sheetName, cellName, value string) export.Cell {
	typ, err := r.wb.GetCellType(sheetName, cellName)
	if err != nil {
		return export.String(value)
	}

	switch typ {
	case excelize.CellTypeBool:
		switch strings.ToUpper(value) {
		case "1", "TRUE":
			return export.Bool(true)
		case "0", "FALSE":
			return export.Bool(false)
		}
		return export.String(value)
	case excelize.CellTypeDate:
		if t, ok := parseISODate(value); ok {
			return export.Date(wallClock(t, r.loc))
		}
		return export.String(value)
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return export.String(value)
		}
		if r.isDateStyle(sheetName, cellName) {
			t, err := excelize.ExcelDateToTime(f, r.date1904)
			if err == nil {
				return export.Date(wallClock(t, r.loc))
			}
		}
		return export.Number(f)
	default:
		return export.String(value)
	}
}

// parseISODate parses value with the first matching ISO 8601 layout.
// Values without an offset are read as UTC clock fields.
func parseISODate(value string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r *workbookReader) isDateStyle(sheetName, cellName string) bool {
	id, err := r.wb.GetCellStyle(sheetName, cellName)
	if err != nil || id == 0 {
		return false
	}
	if isDate, ok := r.styles[id]; ok {
		return isDate
	}

	isDate := false
	if style, err := r.wb.GetStyle(id); err == nil && style != nil {
		custom := ""
		if style.CustomNumFmt != nil {
			custom = *style.CustomNumFmt
		}
		isDate = isDateFormat(style.NumFmt, custom)
	}
	r.styles[id] = isDate
	return isDate
}

// wallClock reads the clock fields of t, rounded to the millisecond, as a time in loc.
func wallClock(t time.Time, loc *time.Location) time.Time {
	t = t.Round(time.Millisecond)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// ListSpreadsheets returns the workbooks directly inside folderID sorted by name.
// Excel lock files are skipped.
func (s *Source) ListSpreadsheets(ctx context.Context, folderID string) ([]export.FileRef, error) {
	return s.list(ctx, folderID, func(e fs.DirEntry) bool {
		if e.IsDir() || strings.HasPrefix(e.Name(), lockFilePrefix) {
			return false
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range Extensions {
			if ext == want {
				return true
			}
		}
		return false
	})
}

// ListFolders returns the subdirectories directly inside folderID sorted by name.
// Hidden directories (starting with a dot) are skipped.
func (s *Source) ListFolders(ctx context.Context, folderID string) ([]export.FileRef, error) {
	return s.list(ctx, folderID, func(e fs.DirEntry) bool {
		return e.IsDir() && !strings.HasPrefix(e.Name(), ".")
	})
}

func (s *Source) list(ctx context.Context, folderID string, keep func(fs.DirEntry) bool) ([]export.FileRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := resolve(folderID)
	if err != nil {
		return nil, err
	}

	dir, err := s.root.Open(name)
	if err != nil {
		return nil, mapError(err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to read directory %s: %w", folderID, err))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	base := filepath.ToSlash(name)
	var refs []export.FileRef
	for _, e := range entries {
		if !keep(e) {
			continue
		}
		refs = append(refs, export.FileRef{ID: path.Join(base, e.Name()), Name: e.Name()})
	}
	return refs, nil
}
