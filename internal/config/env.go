package config

import (
	"os"
	"strconv"
)

// Environment variable names for overrides.
const (
	EnvConfig          = "SHEETEXPORT_CONFIG"
	EnvAddr            = "SHEETEXPORT_ADDR"
	EnvPassword        = "SHEETEXPORT_PASSWORD"
	EnvSource          = "SHEETEXPORT_SOURCE"
	EnvCredentialsFile = "SHEETEXPORT_CREDENTIALS_FILE"
	EnvLocalDir        = "SHEETEXPORT_LOCAL_DIR"
	EnvTimeZone        = "SHEETEXPORT_TIMEZONE"
	EnvArchiveName     = "SHEETEXPORT_ARCHIVE_NAME"
	EnvLogLevel        = "SHEETEXPORT_LOG_LEVEL"
	EnvLogFormat       = "SHEETEXPORT_LOG_FORMAT"
	EnvMetricsEnabled  = "SHEETEXPORT_METRICS_ENABLED"
	EnvMetricsAddr     = "SHEETEXPORT_METRICS_ADDR"
)

// EnvOverrides holds values read from the environment.
// Empty strings mean "not set".
type EnvOverrides struct {
	ConfigPath      string
	Addr            string
	Password        string
	Source          string
	CredentialsFile string
	LocalDir        string
	TimeZone        string
	ArchiveName     string
	LogLevel        string
	LogFormat       string
	MetricsEnabled  string
	MetricsAddr     string
}

// ReadEnvOverrides reads the SHEETEXPORT_* environment variables.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:      os.Getenv(EnvConfig),
		Addr:            os.Getenv(EnvAddr),
		Password:        os.Getenv(EnvPassword),
		Source:          os.Getenv(EnvSource),
		CredentialsFile: os.Getenv(EnvCredentialsFile),
		LocalDir:        os.Getenv(EnvLocalDir),
		TimeZone:        os.Getenv(EnvTimeZone),
		ArchiveName:     os.Getenv(EnvArchiveName),
		LogLevel:        os.Getenv(EnvLogLevel),
		LogFormat:       os.Getenv(EnvLogFormat),
		MetricsEnabled:  os.Getenv(EnvMetricsEnabled),
		MetricsAddr:     os.Getenv(EnvMetricsAddr),
	}
}

func (e EnvOverrides) apply(cfg *Config) {
	setString(&cfg.Server.Addr, e.Addr)
	setString(&cfg.Server.Password, e.Password)
	setString(&cfg.Source.Type, e.Source)
	setString(&cfg.Source.CredentialsFile, e.CredentialsFile)
	setString(&cfg.Source.LocalDir, e.LocalDir)
	setString(&cfg.Source.TimeZone, e.TimeZone)
	setString(&cfg.Export.ArchiveName, e.ArchiveName)
	setString(&cfg.Logging.Level, e.LogLevel)
	setString(&cfg.Logging.Format, e.LogFormat)
	setString(&cfg.Metrics.Addr, e.MetricsAddr)

	// unparsable booleans are ignored, like the instrumentation env vars
	if b, err := strconv.ParseBool(e.MetricsEnabled); err == nil {
		cfg.Metrics.Enabled = b
	}
}

// CLIOverrides holds values from command line flags.
// Nil pointers mean the flag was not given.
type CLIOverrides struct {
	ConfigPath      string
	Addr            *string
	Password        *string
	Source          *string
	CredentialsFile *string
	LocalDir        *string
	TimeZone        *string
	ArchiveName     *string
	LogLevel        *string
	LogFormat       *string
	MetricsEnabled  *bool
	MetricsAddr     *string
}

func (c CLIOverrides) apply(cfg *Config) {
	setPtr(&cfg.Server.Addr, c.Addr)
	setPtr(&cfg.Server.Password, c.Password)
	setPtr(&cfg.Source.Type, c.Source)
	setPtr(&cfg.Source.CredentialsFile, c.CredentialsFile)
	setPtr(&cfg.Source.LocalDir, c.LocalDir)
	setPtr(&cfg.Source.TimeZone, c.TimeZone)
	setPtr(&cfg.Export.ArchiveName, c.ArchiveName)
	setPtr(&cfg.Logging.Level, c.LogLevel)
	setPtr(&cfg.Logging.Format, c.LogFormat)
	setPtr(&cfg.Metrics.Enabled, c.MetricsEnabled)
	setPtr(&cfg.Metrics.Addr, c.MetricsAddr)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
