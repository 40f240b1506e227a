// Package cmd implements the command-line interface for sheetexport.
//
// This package provides the following commands:
//   - serve: Start the HTTP export server
//   - export: Export spreadsheets to a ZIP archive without a server
//   - fetch: Download an archive from a running exporter and extract it
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
