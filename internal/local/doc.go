// Package local serves spreadsheets from Excel workbooks on disk.
//
// The source is rooted at a directory. Spreadsheet and folder IDs are
// slash-separated paths relative to that root, with "." naming the root
// itself. Access is confined to the root with os.Root, so neither ".."
// segments nor symbolic links can reach files outside it.
package local
