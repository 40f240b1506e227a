package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/teemow/sheetexport/internal/export"
)

const spreadsheetJSON = `{
  "spreadsheetId": "S1",
  "properties": {"title": "Fixtures", "timeZone": "Asia/Tokyo"},
  "sheets": [
    {
      "properties": {"title": "Matches"},
      "data": [{
        "rowData": [
          {"values": [{"effectiveValue": {"stringValue": "when"}}, {"effectiveValue": {"stringValue": "where"}}]},
          {"values": [
            {"effectiveValue": {"numberValue": 44931.75}, "effectiveFormat": {"numberFormat": {"type": "DATE_TIME"}}},
            {"effectiveValue": {"stringValue": "Lord's, London"}}
          ]}
        ]
      }]
    },
    {"properties": {"title": "#notes"}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), nil, nil,
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	require.NoError(t, err)
	return client
}

func TestClient_OpenSpreadsheet(t *testing.T) {
	var gotPath, gotGrid, gotFields string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotGrid = r.URL.Query().Get("includeGridData")
		gotFields = r.URL.Query().Get("fields")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(spreadsheetJSON))
	})

	got, err := client.OpenSpreadsheet(context.Background(), "S1")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/spreadsheets/S1"), "path %s", gotPath)
	assert.Equal(t, "true", gotGrid)
	assert.Contains(t, gotFields, "effectiveFormat/numberFormat/type")
	assert.Contains(t, gotFields, "timeZone")

	assert.Equal(t, "Fixtures", got.Title)
	assert.Equal(t, "Asia/Tokyo", got.TimeZone)
	require.Len(t, got.Sheets, 2)

	csv := export.SheetCSV(&got.Sheets[0], export.Location(got.TimeZone))
	assert.Equal(t, "when,where\n2023-01-05 18:00:00,\"Lord's, London\"", csv)
}

func TestClient_OpenSpreadsheet_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		wantIs error
	}{
		{"not found", http.StatusNotFound, export.ErrNotFound},
		{"forbidden", http.StatusForbidden, export.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope"}}`, tt.status)
			})

			_, err := client.OpenSpreadsheet(context.Background(), "S1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Contains(t, err.Error(), "S1")
		})
	}
}

func TestClient_OpenSpreadsheet_RequiresID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.OpenSpreadsheet(context.Background(), "")
	assert.Error(t, err)
}
