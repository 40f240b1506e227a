package drive

import (
	"context"
	"fmt"
	"log/slog"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/sheetexport/internal/export"
	"github.com/teemow/sheetexport/internal/google"
	"github.com/teemow/sheetexport/internal/instrumentation"
	"github.com/teemow/sheetexport/internal/logging"
)

// Client wraps the Google Drive API service and lists folder contents.
type Client struct {
	service  *drive.Service
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
	pageSize int64
}

var _ export.FolderLister = (*Client)(nil)

// NewClient creates a new Google Drive client.
// opts are passed to the Drive service, typically option.WithHTTPClient.
// metrics and logger may be nil.
func NewClient(ctx context.Context, metrics *instrumentation.Metrics, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		service:  driveService,
		metrics:  metrics,
		logger:   logging.WithService(logger, instrumentation.ServiceDrive),
		pageSize: DefaultPageSize,
	}, nil
}

// SetPageSize overrides the number of files requested per list call.
func (c *Client) SetPageSize(n int64) {
	if n > 0 {
		c.pageSize = n
	}
}

// ListSpreadsheets returns the native spreadsheets directly inside folderID,
// ordered by name.
func (c *Client) ListSpreadsheets(ctx context.Context, folderID string) ([]export.FileRef, error) {
	return c.listChildren(ctx, folderID, SpreadsheetMimeType, instrumentation.OperationListFiles)
}

// ListFolders returns the subfolders directly inside folderID, ordered by name.
func (c *Client) ListFolders(ctx context.Context, folderID string) ([]export.FileRef, error) {
	return c.listChildren(ctx, folderID, FolderMimeType, instrumentation.OperationListFolders)
}

// listChildren pages through every result of a children query.
func (c *Client) listChildren(ctx context.Context, folderID, mimeType, operation string) ([]export.FileRef, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}

	query := ChildrenQuery(folderID, mimeType)
	var refs []export.FileRef
	pageToken := ""
	pages := 0

	for {
		call := c.service.Files.List().
			Q(query).
			OrderBy(listOrder).
			PageSize(c.pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Fields(listFields)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var fileList *drive.FileList
		err := google.Call(ctx, c.metrics, instrumentation.ServiceDrive, operation, func(ctx context.Context) error {
			var err error
			fileList, err = call.Context(ctx).Do()
			return err
		}, instrumentation.NewSpanAttributeBuilder().WithResource(instrumentation.ResourceFolder, folderID).Build()...)
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
		}

		pages++
		for _, f := range fileList.Files {
			refs = append(refs, export.FileRef{ID: f.Id, Name: f.Name})
		}

		if fileList.NextPageToken == "" {
			break
		}
		pageToken = fileList.NextPageToken
	}

	c.logger.Debug("folder listed",
		logging.Folder(folderID),
		slog.String("mime_type", mimeType),
		slog.Int("files", len(refs)),
		slog.Int("pages", pages))

	return refs, nil
}
