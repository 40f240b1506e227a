package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", FormatJSON, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", Spreadsheet("S1"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "S1", entry[KeySpreadsheet])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", FormatText, &buf)
	require.NoError(t, err)

	logger.Debug("hello", Folder("F1"))
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "folder=F1")
}

func TestNew_AutoWithoutTerminalIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", FormatAuto, &buf)
	require.NoError(t, err)

	logger.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", FormatJSON, nil)
	assert.Error(t, err)

	_, err = New("info", "xml", nil)
	assert.Error(t, err)
}
