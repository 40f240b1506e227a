package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/sheetexport/internal/config"
	"github.com/teemow/sheetexport/internal/fetch"
)

type fetchOptions struct {
	url         string
	password    string
	fileIDs     []string
	folderIDs   []string
	out         string
	timeout     time.Duration
	parallelism int
}

func newFetchCmd(a *app) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and extract an archive from a running exporter",
		Long: `Call a running exporter, decode the base64 archive it returns and write
every CSV entry into the output directory. Entries whose name starts with
'#' are skipped.

The password defaults to the SHEETEXPORT_PASSWORD environment variable.

Example:
  sheetexport fetch --url https://export.example.com/exec --file-id 1AbC --out ./tables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "exporter URL (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "export password (default: $SHEETEXPORT_PASSWORD)")
	cmd.Flags().StringArrayVar(&opts.fileIDs, "file-id", nil, "spreadsheet ID (repeatable)")
	cmd.Flags().StringArrayVar(&opts.folderIDs, "folder-id", nil, "folder ID (repeatable)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", fetch.DefaultTimeout, "request timeout")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", fetch.DefaultParallelism, "number of files written concurrently")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func runFetch(cmd *cobra.Command, a *app, opts *fetchOptions) error {
	password := opts.password
	if !cmd.Flags().Changed("password") {
		password = os.Getenv(config.EnvPassword)
	}

	client, err := fetch.NewClient(opts.url, password, &http.Client{Timeout: opts.timeout}, a.logger)
	if err != nil {
		return err
	}

	zr, err := client.Fetch(cmd.Context(), opts.fileIDs, opts.folderIDs)
	if err != nil {
		return err
	}

	names, err := fetch.Extract(cmd.Context(), zr, opts.out, opts.parallelism)
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	a.logger.Info("archive extracted", "out", opts.out, "files", len(names))

	return nil
}
