package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teemow/sheetexport/internal/config"
	"github.com/teemow/sheetexport/internal/logging"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI.
func SetVersion(v string) {
	version = v
}

// app carries state shared by the subcommands of one root command.
type app struct {
	configPath string

	// cfg and logger are set by the root pre-run
	cfg    *config.Config
	logger *slog.Logger
}

// skipConfigCommands are commands that do not need the resolved config.
var skipConfigCommands = map[string]bool{
	"sheetexport version": true,
	"sheetexport fetch":   true,
}

// newRootCmd builds the root command with all subcommands registered.
func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "sheetexport",
		Short: "Exports spreadsheet sheets as CSV files in a ZIP archive",
		Long: `sheetexport reads Google Sheets (or a directory of Excel workbooks),
converts every sheet to CSV and bundles the results into a ZIP archive.

It can run as:
  - An HTTP server answering password protected export requests (default)
  - A one-shot exporter writing the archive to a file
  - A client fetching and extracting archives from a running exporter`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfigCommands[cmd.CommandPath()] {
				return a.bootstrapLogger(cmd)
			}
			return a.loadConfig(cmd)
		},
	}
	cmd.SetVersionTemplate(`{{printf "sheetexport version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file path (default: user config dir sheetexport/config.toml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", logging.FormatAuto, "log format: auto, text, json")
	flags.String("source", config.SourceGoogle, "spreadsheet source: google or local")
	flags.String("credentials-file", "", "Google service account or authorized user JSON (default: application default credentials)")
	flags.String("local-dir", "", "workbook directory for the local source")
	flags.String("timezone", "", "timezone for local workbooks (IANA name, default UTC)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newFetchCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the configuration from defaults, config file,
// environment and explicitly set flags, then builds the logger.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cli := config.CLIOverrides{
		ConfigPath:      a.configPath,
		Addr:            changedString(cmd, "addr"),
		Password:        changedString(cmd, "password"),
		Source:          changedString(cmd, "source"),
		CredentialsFile: changedString(cmd, "credentials-file"),
		LocalDir:        changedString(cmd, "local-dir"),
		TimeZone:        changedString(cmd, "timezone"),
		ArchiveName:     changedString(cmd, "archive-name"),
		LogLevel:        changedString(cmd, "log-level"),
		LogFormat:       changedString(cmd, "log-format"),
		MetricsAddr:     changedString(cmd, "metrics-addr"),
	}

	enabled, err := changedBool(cmd, "metrics")
	if err != nil {
		return err
	}
	cli.MetricsEnabled = enabled

	cfg, err := config.Resolve(config.ReadEnvOverrides(), cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	slog.SetDefault(logger)

	return nil
}

// bootstrapLogger builds a logger from the logging flags alone, for commands
// that do not load the config file.
func (a *app) bootstrapLogger(cmd *cobra.Command) error {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	logger, err := logging.New(level, format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.logger = logger
	return nil
}

// changedString returns the value of flag name when it was explicitly set.
func changedString(cmd *cobra.Command, name string) *string {
	f := lookupChanged(cmd, name)
	if f == nil {
		return nil
	}
	v := f.Value.String()
	return &v
}

// changedBool returns the value of boolean flag name when it was explicitly set.
func changedBool(cmd *cobra.Command, name string) (*bool, error) {
	f := lookupChanged(cmd, name)
	if f == nil {
		return nil, nil
	}
	v, err := strconv.ParseBool(f.Value.String())
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &v, nil
}

func lookupChanged(cmd *cobra.Command, name string) *pflag.Flag {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	return f
}
