package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrSource    = "source"
	attrReason    = "reason"
)

// Metrics provides methods for recording observability metrics.
// All methods are no-ops on a nil *Metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeRequests      metric.Int64UpDownCounter

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// Export metrics
	exportsTotal   metric.Int64Counter
	exportDuration metric.Float64Histogram
	exportSheets   metric.Int64Histogram

	// Auth metrics
	authFailuresTotal metric.Int64Counter

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_active_requests gauge: %w", err)
	}

	// Google API Metrics
	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	// Export Metrics
	m.exportsTotal, err = meter.Int64Counter(
		"exports_total",
		metric.WithDescription("Total number of export requests"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exports_total counter: %w", err)
	}

	m.exportDuration, err = meter.Float64Histogram(
		"export_duration_seconds",
		metric.WithDescription("Time to collect and archive an export in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create export_duration_seconds histogram: %w", err)
	}

	m.exportSheets, err = meter.Int64Histogram(
		"export_sheets",
		metric.WithDescription("Number of CSV entries per successful export"),
		metric.WithUnit("{sheet}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 25, 50, 100, 250),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create export_sheets histogram: %w", err)
	}

	// Auth Metrics
	m.authFailuresTotal, err = meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of rejected export requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth_failures_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
// Unless detailed labels are enabled, unknown paths are recorded as "other".
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	if !m.detailedLabels {
		path = PathLabel(path)
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveRequests increments the in-flight request gauge.
func (m *Metrics) IncrementActiveRequests(ctx context.Context) {
	if m == nil || m.activeRequests == nil {
		return // Instrumentation not initialized
	}

	m.activeRequests.Add(ctx, 1)
}

// DecrementActiveRequests decrements the in-flight request gauge.
func (m *Metrics) DecrementActiveRequests(ctx context.Context) {
	if m == nil || m.activeRequests == nil {
		return // Instrumentation not initialized
	}

	m.activeRequests.Add(ctx, -1)
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (sheets, drive)
//   - operation: Operation type (get, list_files, list_folders)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordExport records a finished export request.
// The entry count is only recorded for successful exports.
//
// Parameters:
//   - source: Configured source type ("google" or "local")
//   - status: Result status ("success" or "error")
//   - entries: Number of CSV entries in the archive
//   - duration: Time taken to collect and archive
func (m *Metrics) RecordExport(ctx context.Context, source, status string, entries int, duration time.Duration) {
	if m == nil || m.exportsTotal == nil || m.exportDuration == nil || m.exportSheets == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrSource, source),
		attribute.String(attrStatus, status),
	}

	m.exportsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.exportDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if status == StatusSuccess {
		m.exportSheets.Record(ctx, int64(entries), metric.WithAttributes(attribute.String(attrSource, source)))
	}
}

// RecordAuthFailure records a rejected request.
// Reason should be one of: "missing", "invalid"
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil || m.authFailuresTotal == nil {
		return // Instrumentation not initialized
	}

	m.authFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrReason, reason)))
}
