package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_PlainValues(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected string
	}{
		{"empty", Empty(), ""},
		{"empty string", String(""), ""},
		{"zero cell", Cell{}, ""},
		{"text", String("Kohli"), "Kohli"},
		{"text with spaces", String("  leading and trailing  "), "  leading and trailing  "},
		{"integer", Number(42), "42"},
		{"negative", Number(-3), "-3"},
		{"fraction", Number(1.5), "1.5"},
		{"small fraction", Number(0.000123), "0.000123"},
		{"negative zero", Number(-0.0), "0"},
		{"large", Number(123456789012), "123456789012"},
		{"huge", Number(1e21), "1e+21"},
		{"tiny", Number(1e-7), "1e-7"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Serialize(tt.cell, time.UTC))
		})
	}
}

func TestSerialize_Quoting(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"comma", "Smith, Steve", `"Smith, Steve"`},
		{"quote", `the "wall"`, `"the ""wall"""`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
		{"carriage return", "a\rb", "\"a\rb\""},
		{"tab", "a\tb", "\"a\tb\""},
		{"only quote", `"`, `""""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(String(tt.value), time.UTC)
			assert.Equal(t, tt.expected, got)

			// must decode back to the original value
			record, err := csv.NewReader(strings.NewReader(got)).Read()
			require.NoError(t, err)
			require.Len(t, record, 1)
			assert.Equal(t, tt.value, record[0])
		})
	}
}

func TestSerialize_SpaceDoesNotQuote(t *testing.T) {
	assert.Equal(t, "a b c", Serialize(String("a b c"), time.UTC))
}

func TestSerialize_Date(t *testing.T) {
	date := time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "2023-01-05 08:00:00", Serialize(Date(date), time.UTC))
	assert.Equal(t, "2023-01-05 08:00:00", SerializeValue(date, "UTC"))

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-05 17:00:00", Serialize(Date(date), tokyo))
	assert.Equal(t, "2023-01-05 17:00:00", SerializeValue(date, "Asia/Tokyo"))
}

func TestSerialize_DateDropsSubSeconds(t *testing.T) {
	date := time.Date(2024, 12, 31, 23, 59, 59, 999_000_000, time.UTC)
	assert.Equal(t, "2024-12-31 23:59:59", Serialize(Date(date), time.UTC))
}

func TestSerialize_NilLocationUsesUTC(t *testing.T) {
	date := time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-01-05 08:00:00", Serialize(Date(date), nil))
}

func TestSerializeValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"string", "hello", "hello"},
		{"float", 2.25, "2.25"},
		{"int", 7, "7"},
		{"int64", int64(-12), "-12"},
		{"bool", true, "true"},
		{"cell", String("a,b"), `"a,b"`},
		{"nil time pointer", (*time.Time)(nil), ""},
		{"unsupported", struct{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SerializeValue(tt.value, "UTC"))
		})
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, time.UTC, Location("Not/AZone"))
	assert.Equal(t, "Europe/London", Location("Europe/London").String())
}

func TestCellKind_String(t *testing.T) {
	assert.Equal(t, "empty", CellEmpty.String())
	assert.Equal(t, "string", CellString.String())
	assert.Equal(t, "number", CellNumber.String())
	assert.Equal(t, "bool", CellBool.String())
	assert.Equal(t, "date", CellDate.String())
	assert.Equal(t, "unknown", CellKind(99).String())
}
