package instrumentation

// Cardinality management helpers for metrics.
// These functions bound label values taken from request input so arbitrary
// URLs cannot create unbounded time series.

// PathOther is the label recorded for request paths outside the known routes.
const PathOther = "other"

// knownPaths are the routes served by the export server.
var knownPaths = map[string]bool{
	"/":                 true,
	"/exec":             true,
	"/healthz":          true,
	"/readyz":           true,
	"/healthz/detailed": true,
}

// PathLabel returns the metric label for an HTTP request path.
//
// Example:
//
//	PathLabel("/exec")          // "/exec"
//	PathLabel("/wp-login.php")  // "other"
func PathLabel(path string) string {
	if knownPaths[path] {
		return path
	}
	return PathOther
}

// Common operation types for Google API metrics.
// Status and Service constants are defined in config.go.
const (
	OperationGet         = "get"
	OperationListFiles   = "list_files"
	OperationListFolders = "list_folders"
)
