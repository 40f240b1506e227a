// Package logging provides structured logging utilities for the sheetexport service.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Handler construction with level and format selection
//   - Consistent attribute naming across the codebase
//   - Secret masking for passwords and tokens
//
// # Usage Patterns
//
// Create a logger and attach standard attributes:
//
//	logger, err := logging.New("info", logging.FormatAuto, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	logger = logging.WithOperation(logger, "export.collect")
//	logger.Info("spreadsheet collected",
//	    logging.Spreadsheet(id),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// The access password is never logged. Use SanitizeSecret when a log line
// needs to mention that one was supplied.
package logging
