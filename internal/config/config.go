package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the working directory.
const FileName = "oxy-stage.toml"

// Load reads configuration from standard locations with environment overrides.
// Search order: ./oxy-stage.toml, $XDG_CONFIG_HOME/oxy-stage/config.toml,
// ~/.config/oxy-stage/config.toml. Without a file the defaults are used.
func Load() (*Config, error) {
	if path := findConfigFile(); path != "" {
		return LoadFrom(path)
	}

	cfg := Default()
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
// Keys missing from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	paths := []string{FileName}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdgConfig = filepath.Join(home, ".config")
		}
	}
	if xdgConfig != "" {
		paths = append(paths, filepath.Join(xdgConfig, "oxy-stage", "config.toml"))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OXY_STAGE_ASSET"); v != "" {
		cfg.Asset.Path = v
	}
	if v := os.Getenv("OXY_STAGE_AUDIO"); v != "" {
		cfg.Audio.Path = v
	}
	if v := os.Getenv("OXY_STAGE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("OXY_STAGE_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("OXY_STAGE_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			cfg.Window.Enabled = false
		}
	}
}
