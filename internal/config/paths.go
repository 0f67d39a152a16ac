// Package config manages rpgsave configuration and filesystem paths.
//
// The data root is <UserConfigDir>/rpgsave and holds config.yaml, the log
// directory, and diagnostic bundles written after failed edits.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by rpgsave.
type Paths struct {
	// Root is the base directory for all rpgsave data
	Root string

	// Config is the path to the config file
	Config string

	// Logs is the default directory for log files
	Logs string

	// Diagnostics is the directory for diagnostic bundles
	Diagnostics string
}

// DefaultPaths returns the paths under the OS user configuration directory
// (e.g. ~/.config/rpgsave on Linux, %AppData%\rpgsave on Windows).
func DefaultPaths() (*Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("failed to get user config directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return PathsFromRoot(filepath.Join(base, "rpgsave")), nil
}

// PathsFromRoot lays out the standard paths under root.
func PathsFromRoot(root string) *Paths {
	return &Paths{
		Root:        root,
		Config:      filepath.Join(root, "config.yaml"),
		Logs:        filepath.Join(root, "logs"),
		Diagnostics: filepath.Join(root, "diagnostics"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Logs,
		p.Diagnostics,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
