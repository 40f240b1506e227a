package drive

import (
	"fmt"
	"strings"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// SpreadsheetMimeType is the MIME type for native Google Sheets files
	SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

	// DefaultPageSize is the number of files requested per list call
	DefaultPageSize = 1000

	// listFields limits list responses to what traversal needs
	listFields = "nextPageToken, files(id, name)"

	// listOrder keeps traversal order deterministic
	listOrder = "name"
)

// ChildrenQuery returns the Drive search query for non-trashed files of the
// given MIME type directly inside folderID.
func ChildrenQuery(folderID, mimeType string) string {
	return fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false",
		escapeQueryValue(folderID), escapeQueryValue(mimeType))
}

// escapeQueryValue escapes a value for use inside a single-quoted query string.
func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
