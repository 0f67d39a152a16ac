package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the contents of config.yaml.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Editor      EditorConfig      `yaml:"editor"`
	History     HistoryConfig     `yaml:"history"`
	Scan        ScanConfig        `yaml:"scan"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Watch       WatchConfig       `yaml:"watch"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives log output when set; it is appended to.
	File string `yaml:"file,omitempty"`
}

// EditorConfig holds tree view preferences.
type EditorConfig struct {
	// Beautify shows display names instead of raw keys.
	Beautify bool `yaml:"beautify"`
}

// HistoryConfig bounds the undo log.
type HistoryConfig struct {
	// Max is the number of undoable edits kept; 0 keeps all.
	Max int `yaml:"max"`
}

// ScanConfig tunes game detection.
type ScanConfig struct {
	// ExtraRoots are searched after the platform defaults.
	ExtraRoots []string `yaml:"extra_roots,omitempty"`
}

// DiagnosticsConfig controls failure reports.
type DiagnosticsConfig struct {
	// Verbose writes a bundle with the full document after each failed edit.
	Verbose bool `yaml:"verbose"`
}

// WatchConfig controls external-change detection for the open file.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Log:   LogConfig{Level: "info"},
		Watch: WatchConfig{Enabled: true, Debounce: 200 * time.Millisecond},
	}
}

// Load reads the config file at path. A missing file yields Default().
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(c.Log.Level)
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.History.Max < 0 {
		return fmt.Errorf("history.max must not be negative, got %d", c.History.Max)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
