package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFileName is the file looked up in the user config directory.
const configFileName = "config.toml"

// DefaultConfigPath returns the config file used when none is given:
// sheetexport/config.toml under the user config directory.
// It returns "" when the platform has no user config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sheetexport", configFileName)
}

// Load reads and parses a TOML config file over the defaults and validates
// the result. Unknown keys are errors.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads path when it exists and returns the defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration and applies the override chain:
// defaults -> config file -> environment variables -> CLI flags.
//
// A config path given by flag or environment must exist; the default path is
// optional.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Config, error) {
	var (
		cfg *Config
		err error
	)

	switch path := firstNonEmpty(cli.ConfigPath, env.ConfigPath); path {
	case "":
		cfg, err = LoadOrDefault(DefaultConfigPath())
	default:
		cfg, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	env.apply(cfg)
	cli.apply(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
