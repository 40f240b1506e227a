package sheets

import (
	"math"
	"time"

	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/sheetexport/internal/export"
)

// Number format types that mark a numeric cell as a date or time.
const (
	NumberFormatDate     = "DATE"
	NumberFormatTime     = "TIME"
	NumberFormatDateTime = "DATE_TIME"
)

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const msPerDay = 24 * 60 * 60 * 1000

// SerialToTime converts a spreadsheet serial date to a time in loc.
// The integer part counts days from 1899-12-30 and the fraction is the time
// of day; the result is rounded to the millisecond and read as wall clock
// time in loc.
func SerialToTime(serial float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	days := math.Floor(serial)
	ms := math.Round((serial - days) * msPerDay)
	if ms >= msPerDay {
		days++
		ms -= msPerDay
	}

	t := serialEpoch.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// ConvertSpreadsheet converts an API spreadsheet with grid data into an
// export snapshot. id is used when the response carries no spreadsheet ID.
func ConvertSpreadsheet(id string, s *sheets.Spreadsheet) *export.Spreadsheet {
	out := &export.Spreadsheet{ID: id}
	if s == nil {
		return out
	}
	if s.SpreadsheetId != "" {
		out.ID = s.SpreadsheetId
	}
	if s.Properties != nil {
		out.Title = s.Properties.Title
		out.TimeZone = s.Properties.TimeZone
	}

	loc := export.Location(out.TimeZone)
	out.Sheets = make([]export.Sheet, 0, len(s.Sheets))
	for _, sh := range s.Sheets {
		if sh == nil {
			continue
		}
		out.Sheets = append(out.Sheets, convertSheet(sh, loc))
	}
	return out
}

func convertSheet(sh *sheets.Sheet, loc *time.Location) export.Sheet {
	var name string
	if sh.Properties != nil {
		name = sh.Properties.Title
	}

	// grid data blocks may be offset; place each at its start row and column
	var grid [][]export.Cell
	for _, data := range sh.Data {
		if data == nil {
			continue
		}
		for r, row := range data.RowData {
			if row == nil {
				continue
			}
			ri := int(data.StartRow) + r
			for c, cd := range row.Values {
				cell := convertCell(cd, loc)
				if cell.IsEmpty() {
					continue
				}
				ci := int(data.StartColumn) + c
				for len(grid) <= ri {
					grid = append(grid, nil)
				}
				for len(grid[ri]) <= ci {
					grid[ri] = append(grid[ri], export.Empty())
				}
				grid[ri][ci] = cell
			}
		}
	}

	return export.Sheet{Name: name, Rows: export.Rectangular(grid)}
}

func convertCell(cd *sheets.CellData, loc *time.Location) export.Cell {
	if cd == nil || cd.EffectiveValue == nil {
		return export.Empty()
	}

	v := cd.EffectiveValue
	switch {
	case v.ErrorValue != nil:
		if cd.FormattedValue != "" {
			return export.String(cd.FormattedValue)
		}
		return export.String(v.ErrorValue.Type)
	case v.NumberValue != nil:
		if isDateFormat(cd.EffectiveFormat) {
			return export.Date(SerialToTime(*v.NumberValue, loc))
		}
		return export.Number(*v.NumberValue)
	case v.BoolValue != nil:
		return export.Bool(*v.BoolValue)
	case v.StringValue != nil:
		return export.String(*v.StringValue)
	default:
		return export.Empty()
	}
}

func isDateFormat(f *sheets.CellFormat) bool {
	if f == nil || f.NumberFormat == nil {
		return false
	}
	switch f.NumberFormat.Type {
	case NumberFormatDate, NumberFormatTime, NumberFormatDateTime:
		return true
	default:
		return false
	}
}
