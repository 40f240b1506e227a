package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelism is the number of entries written concurrently.
const DefaultParallelism = 8

// hiddenPrefix marks sheets that are never written.
const hiddenPrefix = "#"

// Extract writes every CSV entry of zr into dir and returns the written file
// names sorted. Entries whose name starts with "#", directories and names
// that would escape dir are skipped.
func Extract(ctx context.Context, zr *zip.Reader, dir string, parallelism int) ([]string, error) {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	files := entries(zr)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeEntry(f, filepath.Join(dir, filepath.FromSlash(f.Name)))
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	return names, nil
}

// entries returns the archive files that may be written.
func entries(zr *zip.Reader) []*zip.File {
	var files []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasPrefix(path.Base(f.Name), hiddenPrefix) {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) || strings.Contains(f.Name, `\`) {
			continue
		}
		files = append(files, f)
	}
	return files
}

func writeEntry(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open the file: %s, %w", f.Name, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return out.Close()
}
