// Package instrumentation provides OpenTelemetry instrumentation for the
// sheetexport HTTP service.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, exports, and Google API calls
//   - Distributed tracing for request flows and API calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//   - Structured audit records for every export request
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - http_active_requests: Gauge of requests currently being served
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// Export Metrics:
//   - exports_total: Counter of export requests by source and status
//   - export_duration_seconds: Histogram of collection plus archive time
//   - export_sheets: Histogram of CSV entries per successful export
//   - auth_failures_total: Counter of rejected requests by reason
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling (GET /exec)
//   - Google API calls (google.<service>.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: sheetexport)
//   - AUDIT_LOGGING_ENABLED: Enable/disable audit records (default: true)
//   - AUDIT_LOGGING_INCLUDE_IDS: Log requested document IDs (default: false)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordGoogleAPIOperation(ctx, instrumentation.ServiceSheets,
//		instrumentation.OperationGet, instrumentation.StatusSuccess, time.Since(start))
package instrumentation
