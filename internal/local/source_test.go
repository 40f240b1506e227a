package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/teemow/sheetexport/internal/export"
)

// writeWorkbook saves a workbook with one sheet per entry of sheets. Each
// sheet is filled from a slice of rows of Go values.
func writeWorkbook(t *testing.T, path string, sheets map[string][][]any, order ...string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, f.SaveAs(path))
}

func newTestSource(t *testing.T, dir, tz string) *Source {
	t.Helper()
	src, err := NewSource(dir, tz, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSource_OpenSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "season.xlsx"), map[string][][]any{
		"Batting": {
			{"name", "runs", "not out"},
			{"Root, Joe", 82, true},
			{"Pope", 3.5, false},
		},
		"#notes": {{"scratch"}},
		"Fixtures": {
			{"when"},
			{time.Date(2023, 1, 5, 18, 30, 0, 0, time.UTC)},
		},
	}, "Batting", "#notes", "Fixtures")

	src := newTestSource(t, dir, "Asia/Tokyo")

	got, err := src.OpenSpreadsheet(context.Background(), "season.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "season.xlsx", got.ID)
	assert.Equal(t, "season", got.Title)
	assert.Equal(t, "Asia/Tokyo", got.TimeZone)
	require.Len(t, got.Sheets, 3)
	assert.Equal(t, "Batting", got.Sheets[0].Name)
	assert.Equal(t, "#notes", got.Sheets[1].Name)
	assert.Equal(t, "Fixtures", got.Sheets[2].Name)

	loc := export.Location(got.TimeZone)
	assert.Equal(t, "name,runs,not out\n\"Root, Joe\",82,true\nPope,3.5,false",
		export.SheetCSV(&got.Sheets[0], loc))

	// wall clock time is kept in the configured zone
	assert.Equal(t, "when\n2023-01-05 18:30:00", export.SheetCSV(&got.Sheets[2], loc))
}

func TestSource_RaggedRowsArePadded(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "ragged.xlsx"), map[string][][]any{
		"Data": {
			{"a"},
			{"b", nil, "c"},
			{nil, "d"},
		},
	}, "Data")

	got, err := newTestSource(t, dir, "").OpenSpreadsheet(context.Background(), "ragged.xlsx")
	require.NoError(t, err)
	require.Len(t, got.Sheets, 1)

	assert.Equal(t, "a,,\nb,,c\n,d,", export.SheetCSV(&got.Sheets[0], time.UTC))
}

func TestSource_Collect(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "tables", "a.xlsx"), map[string][][]any{"A": {{"1"}}}, "A")
	writeWorkbook(t, filepath.Join(dir, "tables", "nested", "b.xlsx"), map[string][][]any{"B": {{"2"}}}, "B")

	src := newTestSource(t, dir, "")
	res, err := export.NewSourceCollector(src, nil).Collect(context.Background(), nil, []string{"tables"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, res.Names())
}

func TestSource_ListSpreadsheets(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "b.xlsx"), map[string][][]any{"S": nil}, "S")
	writeWorkbook(t, filepath.Join(dir, "a.xlsm"), map[string][][]any{"S": nil}, "S")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$b.xlsx"), []byte("lock"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755))

	src := newTestSource(t, dir, "")

	refs, err := src.ListSpreadsheets(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, []export.FileRef{
		{ID: "a.xlsm", Name: "a.xlsm"},
		{ID: "b.xlsx", Name: "b.xlsx"},
	}, refs)
}

func TestSource_ListFolders(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"zeta", "alpha", ".git", "alpha/inner"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0o755))
	}

	src := newTestSource(t, dir, "")

	refs, err := src.ListFolders(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []export.FileRef{
		{ID: "alpha", Name: "alpha"},
		{ID: "zeta", Name: "zeta"},
	}, refs)

	refs, err = src.ListFolders(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, []export.FileRef{{ID: "alpha/inner", Name: "inner"}}, refs)
}

func TestSource_RejectsPathsOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeWorkbook(t, filepath.Join(parent, "secret.xlsx"), map[string][][]any{"S": {{"x"}}}, "S")

	src := newTestSource(t, dir, "")

	for _, id := range []string{"../secret.xlsx", "/etc/passwd", "a/../../secret.xlsx"} {
		t.Run(id, func(t *testing.T) {
			_, err := src.OpenSpreadsheet(context.Background(), id)
			assert.ErrorIs(t, err, export.ErrNotFound)

			_, err = src.ListFolders(context.Background(), id)
			assert.ErrorIs(t, err, export.ErrNotFound)
		})
	}
}

func TestSource_RejectsSymlinkEscape(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeWorkbook(t, filepath.Join(parent, "secret.xlsx"), map[string][][]any{"S": {{"x"}}}, "S")
	if err := os.Symlink(filepath.Join(parent, "secret.xlsx"), filepath.Join(dir, "link.xlsx")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := newTestSource(t, dir, "").OpenSpreadsheet(context.Background(), "link.xlsx")
	assert.Error(t, err)
}

func TestSource_Missing(t *testing.T) {
	src := newTestSource(t, t.TempDir(), "")

	_, err := src.OpenSpreadsheet(context.Background(), "missing.xlsx")
	assert.ErrorIs(t, err, export.ErrNotFound)

	_, err = src.ListSpreadsheets(context.Background(), "missing")
	assert.ErrorIs(t, err, export.ErrNotFound)
}

func TestNewSource_Errors(t *testing.T) {
	_, err := NewSource("", "", nil)
	assert.Error(t, err)

	_, err = NewSource(t.TempDir(), "Not/AZone", nil)
	assert.Error(t, err)

	_, err = NewSource(filepath.Join(t.TempDir(), "missing"), "", nil)
	assert.Error(t, err)
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		name   string
		id     int
		custom string
		want   bool
	}{
		{"general", 0, "", false},
		{"builtin number", 2, "", false},
		{"builtin date", 14, "", true},
		{"builtin date time", 22, "", true},
		{"builtin time", 46, "", true},
		{"custom iso", 164, "yyyy-mm-dd", true},
		{"custom time", 165, "hh:mm:ss", true},
		{"custom elapsed", 166, "[h]:mm", true},
		{"custom elapsed seconds", 172, "[ss]", true},
		{"custom elapsed with text section", 173, "[h]:mm:ss;@", true},
		{"custom currency", 167, `#,##0.00\ [$€-407]`, false},
		{"quoted literal", 168, `0 "days"`, false},
		{"escaped", 169, `0\d`, false},
		{"negative section only", 170, `0;[Red]"-"`, false},
		{"scientific", 171, "0.00E+00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(tt.id, tt.custom))
		})
	}
}

func writeDateWorkbook(t *testing.T, path string, date1904 bool, serial float64) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &date1904}))
	require.NoError(t, f.SetCellValue("Sheet1", "A1", serial))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A1", "A1", style))
	require.NoError(t, f.SaveAs(path))
}

func TestSource_DateSystems(t *testing.T) {
	tests := []struct {
		name     string
		date1904 bool
		serial   float64
		want     string
	}{
		{"1900 noon of day zero", false, 0.5, "1899-12-30 12:00:00"},
		{"1904 noon of day zero", true, 0.5, "1904-01-01 12:00:00"},
		{"1900 serial", false, 45000, "2023-03-15 00:00:00"},
		{"1904 serial", true, 45000 - 1462, "2023-03-15 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeDateWorkbook(t, filepath.Join(dir, "dates.xlsx"), tt.date1904, tt.serial)

			got, err := newTestSource(t, dir, "").OpenSpreadsheet(context.Background(), "dates.xlsx")
			require.NoError(t, err)
			require.Len(t, got.Sheets, 1)
			require.Len(t, got.Sheets[0].Rows, 1)

			cell := got.Sheets[0].Rows[0][0]
			assert.Equal(t, export.CellDate, cell.Kind)
			assert.Equal(t, tt.want, export.Serialize(cell, time.UTC))
		})
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"2023-01-05T08:00:00Z", time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC), true},
		{"2023-01-05T08:00:00+09:00", time.Date(2023, 1, 5, 8, 0, 0, 0, time.FixedZone("", 9*3600)), true},
		{"2023-01-05T08:00:00", time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC), true},
		{"2023-01-05T08:00:00.250", time.Date(2023, 1, 5, 8, 0, 0, 250_000_000, time.UTC), true},
		{"2023-01-05T08:00", time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC), true},
		{"2023-01-05", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := parseISODate(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
				// clock fields are kept whatever the offset
				assert.Equal(t, tt.want.Hour(), got.Hour())
			}
		})
	}
}
