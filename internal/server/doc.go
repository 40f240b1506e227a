// Package server provides the sheetexport HTTP server.
//
// # Endpoints
//
//   - GET / and GET /exec: export the requested spreadsheets as a base64
//     encoded ZIP archive. Query parameters are password, fileIds and
//     folderIds; the ID parameters may be repeated.
//   - /healthz, /readyz, /healthz/detailed: Kubernetes probes.
//
// Prometheus metrics are served by MetricsServer on a separate address so
// that operational data is not exposed on the export port.
//
// # Security
//
// Every export request must carry the configured password. The comparison
// runs in constant time, and an unset password rejects all requests. The
// query string is never logged or traced because it carries the password.
package server
