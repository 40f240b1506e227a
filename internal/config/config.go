package config

import "github.com/teemow/sheetexport/internal/logging"

// Source types.
const (
	SourceGoogle = "google"
	SourceLocal  = "local"
)

// Config is the complete sheetexport configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Source  SourceConfig  `toml:"source"`
	Export  ExportConfig  `toml:"export"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

// ServerConfig configures the export HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// Password is the shared secret every export request must present.
	// An empty password rejects all requests.
	Password string `toml:"password"`

	ShutdownTimeout   string `toml:"shutdown_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
}

// SourceConfig selects where spreadsheets are read from.
type SourceConfig struct {
	// Type is SourceGoogle or SourceLocal.
	Type string `toml:"type"`

	// CredentialsFile is a service account key or authorized user JSON file.
	// Empty means application default credentials.
	CredentialsFile string `toml:"credentials_file"`

	// LocalDir is the workbook root for the local source.
	LocalDir string `toml:"local_dir"`

	// TimeZone is used for local workbooks, which carry no timezone.
	TimeZone string `toml:"timezone"`
}

// ExportConfig configures the produced archive.
type ExportConfig struct {
	ArchiveName string `toml:"archive_name"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig configures the dedicated metrics server.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// LogAttrs returns key/value pairs describing c for a startup log line.
// The password is reported only by length.
func (c Config) LogAttrs() []any {
	return []any{
		"addr", c.Server.Addr,
		"password", logging.SanitizeSecret(c.Server.Password),
		"source", c.Source.Type,
		"credentials_file", c.Source.CredentialsFile,
		"local_dir", c.Source.LocalDir,
		"timezone", c.Source.TimeZone,
		"archive_name", c.Export.ArchiveName,
		"metrics_enabled", c.Metrics.Enabled,
		"metrics_addr", c.Metrics.Addr,
	}
}
