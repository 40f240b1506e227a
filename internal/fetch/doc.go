// Package fetch downloads an export archive from a running exporter and
// extracts its CSV entries.
//
// The endpoint may be a sheetexport server or any deployment speaking the
// same protocol: a GET with password, fileIds and folderIds query parameters
// answered by base64 encoded ZIP text.
package fetch
