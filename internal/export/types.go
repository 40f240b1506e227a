package export

import (
	"context"
	"errors"
	"strings"
	"time"
)

// HiddenSheetPrefix marks sheets that are excluded from export.
const HiddenSheetPrefix = "#"

var (
	// ErrNotFound is wrapped by backends when a spreadsheet or folder does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is wrapped by backends when access to a spreadsheet or folder is refused.
	ErrPermissionDenied = errors.New("permission denied")
)

// CellKind identifies the type of value held by a Cell.
type CellKind int

const (
	// CellEmpty is a blank cell
	CellEmpty CellKind = iota
	// CellString holds text
	CellString
	// CellNumber holds a numeric value
	CellNumber
	// CellBool holds a boolean value
	CellBool
	// CellDate holds a date or time value
	CellDate
)

// String returns the name of the cell kind.
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	case CellDate:
		return "date"
	default:
		return "unknown"
	}
}

// Cell is a single value read from a sheet.
// Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
	Time   time.Time
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{Kind: CellEmpty}
}

// String returns a text cell. An empty string yields an empty cell.
func String(s string) Cell {
	if s == "" {
		return Empty()
	}
	return Cell{Kind: CellString, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// Bool returns a boolean cell.
func Bool(b bool) Cell {
	return Cell{Kind: CellBool, Bool: b}
}

// Date returns a date cell.
func Date(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || (c.Kind == CellString && c.Text == "")
}

// Sheet is a named rectangular grid of cells.
type Sheet struct {
	// Name is the sheet (tab) name, used as the CSV file name
	Name string

	// Rows holds the used data range, row by row
	Rows [][]Cell
}

// Rectangular trims trailing rows that hold no cells and pads every row with
// empty cells to the width of the widest row. The grid stays anchored at the
// first row and column.
func Rectangular(grid [][]Cell) [][]Cell {
	last := len(grid) - 1
	for last >= 0 && len(grid[last]) == 0 {
		last--
	}
	if last < 0 {
		return nil
	}
	grid = grid[:last+1]

	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	rows := make([][]Cell, len(grid))
	for i, row := range grid {
		padded := make([]Cell, width)
		copy(padded, row)
		for j := len(row); j < width; j++ {
			padded[j] = Empty()
		}
		rows[i] = padded
	}
	return rows
}

// Hidden reports whether the sheet is excluded from export.
func (s *Sheet) Hidden() bool {
	return strings.HasPrefix(s.Name, HiddenSheetPrefix)
}

// Spreadsheet is a read-only snapshot of a spreadsheet document.
type Spreadsheet struct {
	// ID is the stable identifier the spreadsheet was opened with
	ID string

	// Title is the document title
	Title string

	// TimeZone is the IANA timezone used to format date cells
	TimeZone string

	// Sheets are the sheets in source order
	Sheets []Sheet
}

// FileRef identifies a file or folder returned by a FolderLister.
type FileRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpreadsheetReader opens spreadsheets by ID.
type SpreadsheetReader interface {
	OpenSpreadsheet(ctx context.Context, id string) (*Spreadsheet, error)
}

// FolderLister enumerates the direct children of a folder.
type FolderLister interface {
	// ListSpreadsheets returns the spreadsheet files directly inside the folder.
	// Other file types are never returned.
	ListSpreadsheets(ctx context.Context, folderID string) ([]FileRef, error)

	// ListFolders returns the subfolders directly inside the folder.
	ListFolders(ctx context.Context, folderID string) ([]FileRef, error)
}

// Source combines a SpreadsheetReader and a FolderLister.
// Every backend in this module implements both.
type Source interface {
	SpreadsheetReader
	FolderLister
}
