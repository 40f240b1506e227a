package config

import (
	"errors"
	"fmt"
	"net"
	"path"
	"strings"
	"time"

	"github.com/teemow/sheetexport/internal/logging"
)

const (
	minShutdownTimeout = time.Second
	archiveExtension   = ".zip"
)

// Validate checks all configuration values and returns every error found.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == cfg.Server.Addr {
		errs = append(errs, fmt.Errorf("metrics.addr: must differ from server.addr %q", cfg.Server.Addr))
	}

	return errors.Join(errs...)
}

// RequirePassword reports an error when no export password is configured.
// Serving without one would reject every request.
func (c *Config) RequirePassword() error {
	if c.Server.Password == "" {
		return fmt.Errorf("server.password: must be set (or %s)", EnvPassword)
	}
	return nil
}

// ShutdownTimeout returns the parsed server shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ReadHeaderTimeout returns the parsed read header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadHeaderTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func validateServer(s *ServerConfig) []error {
	var errs []error

	if err := validateAddr(s.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.addr: %w", err))
	}

	d, err := time.ParseDuration(s.ShutdownTimeout)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("server.shutdown_timeout: %w", err))
	case d < minShutdownTimeout:
		errs = append(errs, fmt.Errorf("server.shutdown_timeout: must be at least %s, got %s", minShutdownTimeout, d))
	}

	if d, err := time.ParseDuration(s.ReadHeaderTimeout); err != nil {
		errs = append(errs, fmt.Errorf("server.read_header_timeout: %w", err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("server.read_header_timeout: must be positive, got %s", d))
	}

	return errs
}

func validateSource(s *SourceConfig) []error {
	var errs []error

	switch s.Type {
	case SourceGoogle:
	case SourceLocal:
		if s.LocalDir == "" {
			errs = append(errs, fmt.Errorf("source.local_dir: required when source.type is %q", SourceLocal))
		}
	default:
		errs = append(errs, fmt.Errorf("source.type: must be %q or %q, got %q", SourceGoogle, SourceLocal, s.Type))
	}

	if s.TimeZone != "" {
		if _, err := time.LoadLocation(s.TimeZone); err != nil {
			errs = append(errs, fmt.Errorf("source.timezone: %w", err))
		}
	}

	return errs
}

func validateExport(e *ExportConfig) []error {
	name := e.ArchiveName

	switch {
	case name == "":
		return []error{fmt.Errorf("export.archive_name: must not be empty")}
	case strings.ContainsAny(name, `/\`) || name != path.Base(name):
		return []error{fmt.Errorf("export.archive_name: must be a bare file name, got %q", name)}
	case !strings.HasSuffix(name, archiveExtension):
		return []error{fmt.Errorf("export.archive_name: must end in %s, got %q", archiveExtension, name)}
	}

	return nil
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	if _, err := logging.ParseLevel(l.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	switch strings.ToLower(l.Format) {
	case logging.FormatAuto, logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format: must be %s, %s or %s, got %q",
			logging.FormatAuto, logging.FormatText, logging.FormatJSON, l.Format))
	}

	return errs
}

func validateMetrics(m *MetricsConfig) []error {
	if !m.Enabled {
		return nil
	}
	if err := validateAddr(m.Addr); err != nil {
		return []error{fmt.Errorf("metrics.addr: %w", err)}
	}
	return nil
}

func validateAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("must not be empty")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return err
	}
	return nil
}
