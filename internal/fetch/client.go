package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/teemow/sheetexport/internal/export"
	"github.com/teemow/sheetexport/internal/logging"
)

// DefaultTimeout bounds a whole fetch request.
const DefaultTimeout = 5 * time.Minute

// maxErrorBody caps how much of an error response is quoted in errors.
const maxErrorBody = 512

// ErrHTMLResponse is returned when the endpoint answers with an HTML page,
// which usually means a login or error page instead of an archive.
var ErrHTMLResponse = errors.New("html response")

// ErrEmptyResponse is returned when the endpoint answers with no body.
var ErrEmptyResponse = errors.New("empty response body")

// Client calls an export endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	password   string
	logger     *slog.Logger
}

// NewClient creates a Client for endpoint.
// A nil httpClient uses one with DefaultTimeout.
func NewClient(endpoint, password string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url must be http or https, got %q", endpoint)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		password:   password,
		logger:     logging.WithOperation(logger, "fetch"),
	}, nil
}

// requestURL builds the endpoint URL for the given IDs, preserving any query
// parameters already present on the endpoint.
func (c *Client) requestURL(fileIDs, folderIDs []string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}

	q := u.Query()
	q.Set("password", c.password)
	q.Del("fileIds")
	q.Del("folderIds")
	for _, id := range fileIDs {
		q.Add("fileIds", id)
	}
	for _, id := range folderIDs {
		q.Add("folderIds", id)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Fetch requests the archive for the given IDs and returns a reader over its
// entries.
func (c *Client) Fetch(ctx context.Context, fileIDs, folderIDs []string) (*zip.Reader, error) {
	uri, err := c.requestURL(fileIDs, folderIDs)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		// the URL carries the password
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("failed to download zip: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("archive downloaded",
		slog.Int(logging.KeyStatus, res.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration(logging.KeyDuration, time.Since(start)))

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download zip: %s: %s", res.Status, snippet(body))
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}
	if body[0] == '<' {
		return nil, fmt.Errorf("%w: %s", ErrHTMLResponse, snippet(body))
	}

	return export.DecodeArchive(body)
}

func snippet(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
