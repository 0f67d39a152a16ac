//go:build !windows

package scanner

import "path/filepath"

func platformRoots(home string) []string {
	return nil
}

func steamInstalls(home string) []string {
	if home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, "Library", "Application Support", "Steam"),
	}
}
