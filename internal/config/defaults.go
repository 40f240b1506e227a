package config

import "github.com/teemow/sheetexport/internal/export"

const (
	defaultAddr              = ":8080"
	defaultShutdownTimeout   = "30s"
	defaultReadHeaderTimeout = "10s"
	defaultSource            = SourceGoogle
	defaultTimeZone          = "UTC"
	defaultLogLevel          = "info"
	defaultLogFormat         = "auto"
	defaultMetricsAddr       = ":9090"
)

// DefaultConfig returns a Config populated with default values.
// It is both the base the config file is decoded over and the fallback when
// no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              defaultAddr,
			ShutdownTimeout:   defaultShutdownTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
		Source: SourceConfig{
			Type:     defaultSource,
			TimeZone: defaultTimeZone,
		},
		Export: ExportConfig{
			ArchiveName: export.DefaultArchiveName,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    defaultMetricsAddr,
		},
	}
}
