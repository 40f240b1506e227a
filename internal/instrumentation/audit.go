package instrumentation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ExportAudit captures all information about one export request for audit logging.
//
// # Privacy Considerations
//
// FileIDs and FolderIDs identify documents. Link-shared documents can be
// opened by anyone holding the ID, so they are only logged when the audit
// logger is configured with IncludeIDs.
type ExportAudit struct {
	// Request identity
	RequestID  string
	RemoteAddr string

	// Requested documents
	FileIDs   []string
	FolderIDs []string

	// Source type (google, local)
	Source string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Entries   int
	Success   bool
	Denied    bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewExportAudit creates a new ExportAudit with timing started.
// Call Complete() when the export finishes.
func NewExportAudit(requestID string) *ExportAudit {
	return &ExportAudit{
		RequestID: requestID,
		StartTime: time.Now(),
	}
}

// WithRemoteAddr sets the client address.
func (a *ExportAudit) WithRemoteAddr(addr string) *ExportAudit {
	a.RemoteAddr = addr
	return a
}

// WithRequest sets the requested spreadsheet and folder IDs.
func (a *ExportAudit) WithRequest(fileIDs, folderIDs []string) *ExportAudit {
	a.FileIDs = fileIDs
	a.FolderIDs = folderIDs
	return a
}

// WithSource sets the source type.
func (a *ExportAudit) WithSource(source string) *ExportAudit {
	a.Source = source
	return a
}

// WithSpanContext extracts trace context from the current span.
func (a *ExportAudit) WithSpanContext(ctx context.Context) *ExportAudit {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		a.TraceID = span.SpanContext().TraceID().String()
		a.SpanID = span.SpanContext().SpanID().String()
	}
	return a
}

// Complete marks the export as finished and calculates duration.
func (a *ExportAudit) Complete(entries int, err error) *ExportAudit {
	a.Duration = time.Since(a.StartTime)
	a.Entries = entries
	a.Success = err == nil
	if err != nil {
		a.Error = err.Error()
	}
	return a
}

// Deny marks the request as rejected before any collection happened.
func (a *ExportAudit) Deny(reason string) *ExportAudit {
	a.Duration = time.Since(a.StartTime)
	a.Denied = true
	a.Success = false
	a.Error = reason
	return a
}

// Status returns "success" or "error" based on the Success field.
func (a *ExportAudit) Status() string {
	if a.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
// Document IDs are included only when includeIDs is set; otherwise only
// their counts are logged.
func (a *ExportAudit) LogAttrs(includeIDs bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("request_id", a.RequestID),
		slog.Int("file_ids", len(a.FileIDs)),
		slog.Int("folder_ids", len(a.FolderIDs)),
		slog.Duration("duration", a.Duration),
		slog.Bool("success", a.Success),
	}

	if includeIDs {
		attrs = append(attrs,
			slog.String("file_id_list", strings.Join(a.FileIDs, ",")),
			slog.String("folder_id_list", strings.Join(a.FolderIDs, ",")),
		)
	}

	// Add optional fields only if present
	if a.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote_addr", a.RemoteAddr))
	}
	if a.Source != "" {
		attrs = append(attrs, slog.String("source", a.Source))
	}
	if a.Success {
		attrs = append(attrs, slog.Int("entries", a.Entries))
	}
	if a.Denied {
		attrs = append(attrs, slog.Bool("denied", true))
	}
	if a.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", a.TraceID))
	}
	if a.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", a.SpanID))
	}
	if a.Error != "" {
		attrs = append(attrs, slog.String("error", a.Error))
	}

	return attrs
}

// AuditLogger provides structured audit logging for export requests.
type AuditLogger struct {
	logger     *slog.Logger
	includeIDs bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, document IDs are not included in logs.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger.With(slog.String("component", "audit")),
		includeIDs: config.IncludeIDs,
		enabled:    config.Enabled,
	}
}

// LogExport writes one audit record for the export.
// Successful exports log at info, denied requests and failures at warn.
func (al *AuditLogger) LogExport(ctx context.Context, a *ExportAudit) {
	if al == nil || !al.enabled || a == nil {
		return
	}

	attrs := a.LogAttrs(al.includeIDs)

	switch {
	case a.Success:
		al.logger.LogAttrs(ctx, slog.LevelInfo, "export_completed", attrs...)
	case a.Denied:
		al.logger.LogAttrs(ctx, slog.LevelWarn, "export_denied", attrs...)
	default:
		al.logger.LogAttrs(ctx, slog.LevelWarn, "export_failed", attrs...)
	}
}
