package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad addr", func(c *Config) { c.Server.Addr = "8080" }, "server.addr"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"bad shutdown", func(c *Config) { c.Server.ShutdownTimeout = "soon" }, "server.shutdown_timeout"},
		{"short shutdown", func(c *Config) { c.Server.ShutdownTimeout = "10ms" }, "at least"},
		{"zero read header", func(c *Config) { c.Server.ReadHeaderTimeout = "0s" }, "server.read_header_timeout"},
		{"unknown source", func(c *Config) { c.Source.Type = "s3" }, "source.type"},
		{"local without dir", func(c *Config) { c.Source.Type = SourceLocal }, "source.local_dir"},
		{"bad timezone", func(c *Config) { c.Source.TimeZone = "Nowhere/Land" }, "source.timezone"},
		{"empty archive", func(c *Config) { c.Export.ArchiveName = "" }, "export.archive_name"},
		{"archive path", func(c *Config) { c.Export.ArchiveName = "../x.zip" }, "bare file name"},
		{"archive extension", func(c *Config) { c.Export.ArchiveName = "x.tar" }, ".zip"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "nope" }, "metrics.addr"},
		{"same addr", func(c *Config) { c.Metrics.Addr = c.Server.Addr }, "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Type = "s3"
	cfg.Logging.Level = "loud"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.type")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate_MetricsDisabledSkipsAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = ""
	assert.NoError(t, Validate(cfg))
}

func TestValidate_LocalSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Type = SourceLocal
	cfg.Source.LocalDir = "/srv/tables"
	cfg.Source.TimeZone = ""
	assert.NoError(t, Validate(cfg))
}

func TestRequirePassword(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.RequirePassword()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPassword)

	cfg.Server.Password = "pw"
	assert.NoError(t, cfg.RequirePassword())
}

func TestTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, 10*time.Second, cfg.ReadHeaderTimeout())

	cfg.Server.ShutdownTimeout = "2m"
	assert.Equal(t, 2*time.Minute, cfg.ShutdownTimeout())
}

func TestLogAttrsHidesPassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Password = "hunter2"

	for _, v := range cfg.LogAttrs() {
		assert.NotEqual(t, "hunter2", v)
	}
}
