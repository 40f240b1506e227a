package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/sheetexport/internal/export"
	"github.com/teemow/sheetexport/internal/instrumentation"
	"github.com/teemow/sheetexport/internal/logging"
)

// Response headers set on successful exports.
const (
	HeaderArchiveName    = "X-Archive-Name"
	HeaderArchiveEntries = "X-Archive-Entries"
)

const contentTypeText = "text/plain; charset=utf-8"

// Collector gathers sheet CSV text for the requested IDs.
type Collector interface {
	Collect(ctx context.Context, fileIDs, folderIDs []string) (*export.Result, error)
}

// ExportHandlerConfig configures an ExportHandler.
type ExportHandlerConfig struct {
	Collector Collector

	// Password is the shared secret. Empty rejects every request.
	Password string

	// ArchiveName is advertised in the X-Archive-Name header.
	// Defaults to export.DefaultArchiveName.
	ArchiveName string

	// Source labels metrics and audit records (google, local).
	Source string

	// SplitIDs treats each ID query value as a comma-separated list.
	// Only sources whose IDs cannot contain commas should set it.
	SplitIDs bool

	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger
	Logger  *slog.Logger

	// Now stamps archive entries. Defaults to time.Now.
	Now func() time.Time
}

// ExportHandler serves base64 encoded ZIP archives of spreadsheet CSV exports.
type ExportHandler struct {
	collector   Collector
	gate        *PasswordGate
	archiveName string
	source      string
	splitIDs    bool
	metrics     *instrumentation.Metrics
	audit       *instrumentation.AuditLogger
	logger      *slog.Logger
	now         func() time.Time
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(config ExportHandlerConfig) (*ExportHandler, error) {
	if config.Collector == nil {
		return nil, fmt.Errorf("collector is required for export handler")
	}
	if config.ArchiveName == "" {
		config.ArchiveName = export.DefaultArchiveName
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &ExportHandler{
		collector:   config.Collector,
		gate:        NewPasswordGate(config.Password),
		archiveName: config.ArchiveName,
		source:      config.Source,
		splitIDs:    config.SplitIDs,
		metrics:     config.Metrics,
		audit:       config.Audit,
		logger:      logging.WithOperation(config.Logger, "server.export"),
		now:         config.Now,
	}, nil
}

// ServeHTTP authorizes the request, collects the sheets and writes the
// archive. Nothing is collected for unauthorized requests and no partial
// archive is ever written.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	requestID := RequestIDFromContext(ctx)

	fileIDs := parseIDs(query[ParamFileIDs], h.splitIDs)
	folderIDs := parseIDs(query[ParamFolderIDs], h.splitIDs)

	audit := instrumentation.NewExportAudit(requestID).
		WithRemoteAddr(r.RemoteAddr).
		WithRequest(fileIDs, folderIDs).
		WithSource(h.source)

	if reason, ok := h.gate.Check(query); !ok {
		h.metrics.RecordAuthFailure(ctx, reason)
		h.audit.LogExport(ctx, audit.WithSpanContext(ctx).Deny(reason))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	ctx, span := instrumentation.StartSpan(ctx, "export",
		instrumentation.NewSpanAttributeBuilder().
			WithRequest(len(fileIDs), len(folderIDs)).
			WithRequestID(requestID).
			Build()...)
	defer span.End()
	audit.WithSpanContext(ctx)

	start := time.Now()
	body, entries, err := h.export(ctx, fileIDs, folderIDs)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	h.metrics.RecordExport(ctx, h.source, status, entries, duration)
	h.audit.LogExport(ctx, audit.Complete(entries, err))

	if err != nil {
		instrumentation.SetSpanError(span, err)
		code := statusCode(err)
		h.logger.LogAttrs(ctx, slog.LevelWarn, "export failed",
			logging.RequestID(requestID),
			slog.Int(logging.KeyStatus, code),
			logging.Err(err))
		http.Error(w, err.Error(), code)
		return
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrEntries, entries))
	instrumentation.SetSpanSuccess(span)

	w.Header().Set("Content-Type", contentTypeText)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set(HeaderArchiveName, h.archiveName)
	w.Header().Set(HeaderArchiveEntries, strconv.Itoa(entries))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		h.logger.DebugContext(ctx, "failed to write response", logging.Err(err))
	}
}

func (h *ExportHandler) export(ctx context.Context, fileIDs, folderIDs []string) (string, int, error) {
	result, err := h.collector.Collect(ctx, fileIDs, folderIDs)
	if err != nil {
		return "", 0, err
	}

	body, err := export.EncodeArchive(result, h.now())
	if err != nil {
		return "", 0, err
	}

	return body, result.Len(), nil
}

// statusCode maps a collection error to an HTTP status.
func statusCode(err error) int {
	switch {
	case errors.Is(err, export.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
