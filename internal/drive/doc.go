// Package drive lists Google Drive folder contents for spreadsheet export.
//
// The client only reads: it lists the native spreadsheets and the subfolders
// directly inside a folder, following every result page. Trashed files are
// excluded and results are ordered by name so traversal is deterministic.
// Shared drives are supported.
//
// Example usage:
//
//	httpClient, err := google.NewHTTPClient(ctx, credentialsFile)
//	if err != nil {
//	    return err
//	}
//	client, err := drive.NewClient(ctx, metrics, logger, option.WithHTTPClient(httpClient))
//	if err != nil {
//	    return err
//	}
//	files, err := client.ListSpreadsheets(ctx, folderID)
package drive
