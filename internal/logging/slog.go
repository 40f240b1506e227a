package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation   = "operation"
	KeyService     = "service"
	KeySpreadsheet = "spreadsheet"
	KeyFolder      = "folder"
	KeyRequestID   = "request_id"
	KeyRemoteAddr  = "remote_addr"
	KeyDuration    = "duration"
	KeyStatus      = "status"
	KeyError       = "error"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusDenied  = "denied"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithService returns a logger with the service attribute set.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// WithRequestID returns a logger with the request ID attribute set.
func WithRequestID(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(slog.String(KeyRequestID, id))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Service returns a slog attribute for the service name.
func Service(svc string) slog.Attr {
	return slog.String(KeyService, svc)
}

// Spreadsheet returns a slog attribute for a spreadsheet ID.
func Spreadsheet(id string) slog.Attr {
	return slog.String(KeySpreadsheet, id)
}

// Folder returns a slog attribute for a folder ID.
func Folder(id string) slog.Attr {
	return slog.String(KeyFolder, id)
}

// RequestID returns a slog attribute for the request ID.
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeSecret returns a masked version of a password or token for logging.
// It returns a length indicator without exposing any content.
func SanitizeSecret(secret string) string {
	if secret == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[secret:%d chars]", len(secret))
}

// IDList joins IDs for a single log attribute, truncating long lists.
func IDList(ids []string) string {
	const limit = 5
	if len(ids) <= limit {
		return strings.Join(ids, ",")
	}
	return fmt.Sprintf("%s,... (+%d)", strings.Join(ids[:limit], ","), len(ids)-limit)
}
