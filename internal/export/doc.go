// Package export converts spreadsheets into CSV text and bundles them into a ZIP archive.
//
// The package is independent of any spreadsheet backend. Backends provide a
// SpreadsheetReader and a FolderLister; the Collector walks file and folder IDs
// through them and produces a Result mapping sheet names to CSV text.
//
// # Serialization
//
// Serialize turns one Cell into a CSV token:
//   - empty cells become the empty string
//   - dates are formatted as "2006-01-02 15:04:05" in the spreadsheet timezone
//   - values containing a comma, double quote, newline, carriage return or tab are quoted
//
// # Collection
//
// Sheets whose name starts with "#" are hidden and never exported. Folders are walked
// depth first: direct spreadsheets before subfolders. When two sheets share a name, the
// one collected last wins.
//
// Example usage:
//
//	collector := export.NewCollector(reader, lister, logger)
//	result, err := collector.Collect(ctx, fileIDs, folderIDs)
//	if err != nil {
//	    return err
//	}
//	text, err := export.EncodeArchive(result, time.Now())
package export
