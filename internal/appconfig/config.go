// Package appconfig manages application configuration and data file paths.
package appconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppName namespaces the config and data directories.
const AppName = "sshmark"

// Config holds application-level configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	DataDir  string `yaml:"data_dir,omitempty"`
	Journal  bool   `yaml:"journal"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Journal:  true,
	}
}

// ConfigDir returns the application config directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/sshmark.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Load reads config.yaml from the config directory.
// If the file doesn't exist, creates it with defaults. A config that cannot
// be read or created is logged and the defaults are used; only a file that
// exists and fails to parse is an error.
func Load() (Config, error) {
	d, err := ConfigDir()
	if err != nil {
		slog.Warn("config directory unavailable, using defaults", "error", err)
		return Default(), nil
	}
	path := filepath.Join(d, "config.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		cfg := Default()
		if !os.IsNotExist(err) {
			slog.Warn("config unreadable, using defaults", "path", path, "error", err)
			return cfg, nil
		}
		if err := Save(cfg); err != nil {
			slog.Warn("could not write default config", "path", path, "error", err)
		}
		return cfg, nil
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}

// Save writes config to config.yaml.
func Save(cfg Config) error {
	d, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d, 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d, "config.yaml"), b, 0o600)
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

// Paths resolves the data locations, honoring data_dir when it is set.
func (c Config) Paths() (Paths, error) {
	if dir := strings.TrimSpace(c.DataDir); dir != "" {
		dir, err := expandHome(dir)
		if err != nil {
			return Paths{}, err
		}
		return Paths{DataHome: dir}, nil
	}
	return DefaultPaths()
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelWarn, false
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
