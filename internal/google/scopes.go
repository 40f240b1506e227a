package google

import (
	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"
)

// DefaultScopes are the OAuth scopes required to export spreadsheets.
//
// The scopes provide access to:
//   - Google Sheets: read cell values and formats
//   - Google Drive: list folder contents
var DefaultScopes = []string{
	sheets.SpreadsheetsReadonlyScope,
	drive.DriveReadonlyScope,
}
