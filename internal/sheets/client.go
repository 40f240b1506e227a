package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/sheetexport/internal/export"
	"github.com/teemow/sheetexport/internal/google"
	"github.com/teemow/sheetexport/internal/instrumentation"
	"github.com/teemow/sheetexport/internal/logging"
)

// gridFields restricts spreadsheets.get to what CSV rendering needs.
const gridFields googleapi.Field = "spreadsheetId," +
	"properties(title,timeZone)," +
	"sheets(properties(title)," +
	"data(startRow,startColumn,rowData(values(effectiveValue,formattedValue,effectiveFormat/numberFormat/type))))"

// Client wraps the Google Sheets API service.
type Client struct {
	service *sheets.Service
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

var _ export.SpreadsheetReader = (*Client)(nil)

// NewClient creates a new Google Sheets client.
// opts are passed to the Sheets service, typically option.WithHTTPClient.
// metrics and logger may be nil.
func NewClient(ctx context.Context, metrics *instrumentation.Metrics, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		service: service,
		metrics: metrics,
		logger:  logging.WithService(logger, instrumentation.ServiceSheets),
	}, nil
}

// OpenSpreadsheet fetches every sheet of the spreadsheet with its grid data.
func (c *Client) OpenSpreadsheet(ctx context.Context, id string) (*export.Spreadsheet, error) {
	if id == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	var resp *sheets.Spreadsheet
	err := google.Call(ctx, c.metrics, instrumentation.ServiceSheets, instrumentation.OperationGet, func(ctx context.Context) error {
		var err error
		resp, err = c.service.Spreadsheets.Get(id).
			IncludeGridData(true).
			Fields(gridFields).
			Context(ctx).
			Do()
		return err
	}, instrumentation.NewSpanAttributeBuilder().WithResource(instrumentation.ResourceSpreadsheet, id).Build()...)
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", id, err)
	}

	spreadsheet := ConvertSpreadsheet(id, resp)
	c.logger.Debug("spreadsheet fetched",
		logging.Spreadsheet(id),
		slog.String("timezone", spreadsheet.TimeZone),
		slog.Int("sheets", len(spreadsheet.Sheets)))

	return spreadsheet, nil
}
