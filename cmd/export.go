package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/sheetexport/internal/export"
)

// stdoutPath selects standard output for --out.
const stdoutPath = "-"

type exportOptions struct {
	fileIDs   []string
	folderIDs []string
	out       string
	base64    bool
}

func newExportCmd(a *app) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export spreadsheets to a ZIP archive",
		Long: `Collect the given spreadsheets and folders from the configured source
and write the ZIP archive locally, without running a server.

Folders are walked recursively: spreadsheets directly inside a folder come
first, then its subfolders. When two sheets share a name the later one wins.

Examples:
  sheetexport export --file-id 1AbC --folder-id 0XyZ --out tables.zip
  sheetexport export --source local --local-dir ./workbooks --folder-id . --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, a, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.fileIDs, "file-id", nil, "spreadsheet ID to export (repeatable)")
	cmd.Flags().StringArrayVar(&opts.folderIDs, "folder-id", nil, "folder ID to walk recursively (repeatable)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file, - for stdout (default: the archive name)")
	cmd.Flags().BoolVar(&opts.base64, "base64", false, "write the base64 text served over HTTP instead of the binary ZIP")
	cmd.Flags().String("archive-name", "", "default output file name")

	return cmd
}

func runExport(cmd *cobra.Command, a *app, opts *exportOptions) error {
	ctx := cmd.Context()

	collector, cleanup, err := newCollector(ctx, a.cfg, nil, a.logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := collector.Collect(ctx, opts.fileIDs, opts.folderIDs)
	if err != nil {
		return err
	}

	var data []byte
	if opts.base64 {
		text, err := export.EncodeArchive(result, time.Now())
		if err != nil {
			return err
		}
		data = []byte(text)
	} else {
		data, err = export.BuildArchive(result, time.Now())
		if err != nil {
			return err
		}
	}

	out := opts.out
	if out == "" {
		out = a.cfg.Export.ArchiveName
	}

	if err := writeOutput(cmd.OutOrStdout(), out, data); err != nil {
		return err
	}

	stats := result.Stats()
	a.logger.Info("export written",
		"out", out,
		"entries", result.Len(),
		"spreadsheets", stats.Spreadsheets,
		"folders", stats.Folders,
		"hidden_sheets", stats.HiddenSheets,
		"overwrites", stats.Overwrites,
		"bytes", len(data))

	return nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == stdoutPath {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
