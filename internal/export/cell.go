package export

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used for date cells.
const DateLayout = "2006-01-02 15:04:05"

// quoteTriggers are the characters that force a CSV field to be quoted.
// Spaces are deliberately absent.
const quoteTriggers = ",\"\n\r\t"

// Serialize converts a cell into a CSV token, formatting dates in loc.
// A nil loc formats dates in UTC.
func Serialize(c Cell, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var v string
	switch c.Kind {
	case CellEmpty:
		return ""
	case CellString:
		v = c.Text
	case CellNumber:
		v = formatNumber(c.Number)
	case CellBool:
		v = strconv.FormatBool(c.Bool)
	case CellDate:
		if c.Time.IsZero() {
			return ""
		}
		v = c.Time.In(loc).Format(DateLayout)
	default:
		return ""
	}

	return quote(v)
}

// SerializeValue converts an arbitrary value into a CSV token.
// It accepts nil, strings, numbers, booleans, time.Time and Cell values;
// timezone is an IANA identifier used only for dates.
func SerializeValue(value any, timezone string) string {
	return Serialize(CellOf(value), Location(timezone))
}

// CellOf wraps a Go value in a Cell.
// Unsupported types yield an empty cell.
func CellOf(value any) Cell {
	switch v := value.(type) {
	case nil:
		return Empty()
	case Cell:
		return v
	case string:
		return String(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case bool:
		return Bool(v)
	case time.Time:
		return Date(v)
	case *time.Time:
		if v == nil {
			return Empty()
		}
		return Date(*v)
	default:
		return Empty()
	}
}

// Location resolves an IANA timezone identifier.
// Empty or unknown identifiers resolve to UTC.
func Location(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// quote wraps v in double quotes when it contains a trigger character,
// doubling any embedded quotes.
func quote(v string) string {
	if !strings.ContainsAny(v, quoteTriggers) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// formatNumber renders f the way spreadsheet scripting runtimes print numbers:
// shortest round-trip digits, exponent notation only for very large or very
// small magnitudes.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		// covers negative zero
		return "0"
	}

	abs := math.Abs(f)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + exp[:1] + digits
}
