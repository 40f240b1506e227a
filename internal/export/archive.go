package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"time"
)

const (
	// DefaultArchiveName is the file name advertised for the archive.
	DefaultArchiveName = "cricket-tables.zip"

	// CSVExtension is appended to every sheet name inside the archive.
	CSVExtension = ".csv"

	// CSVMediaType is the media type of each archive entry.
	CSVMediaType = "text/csv"
)

// EntryName returns the archive entry name for a sheet.
func EntryName(sheetName string) string {
	return sheetName + CSVExtension
}

// BuildArchive writes one deflated "<sheet>.csv" entry per result entry, in result order.
func BuildArchive(result *Result, modified time.Time) ([]byte, error) {
	if result == nil {
		result = NewResult()
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, name := range result.Names() {
		csv, _ := result.Get(name)

		header := &zip.FileHeader{
			Name:     EntryName(name),
			Method:   zip.Deflate,
			Modified: modified,
		}

		f, err := w.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", header.Name, err)
		}
		if _, err := f.Write([]byte(csv)); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", header.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}

	return buf.Bytes(), nil
}

// EncodeArchive builds the archive and returns it as standard base64 text.
func EncodeArchive(result *Result, modified time.Time) (string, error) {
	data, err := BuildArchive(result, modified)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeArchive reverses EncodeArchive and returns a reader over the entries.
func DecodeArchive(text []byte) (*zip.Reader, error) {
	data := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(data, bytes.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	data = data[:n]

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read the zip: %w", err)
	}
	return r, nil
}
