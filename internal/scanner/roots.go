package scanner

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/rpgsave/internal/fsops"
)

// DefaultRoots returns the directories a game scan searches by default:
// common folders under home, platform install locations, Steam libraries,
// then extra. Directories that do not exist are dropped, as are
// duplicates.
func DefaultRoots(fs fsops.FS, home string, extra []string) []string {
	var candidates []string
	if home != "" {
		for _, name := range []string{"Games", "Desktop", "Documents", "Downloads"} {
			candidates = append(candidates, filepath.Join(home, name))
		}
	}
	candidates = append(candidates, platformRoots(home)...)
	for _, install := range steamInstalls(home) {
		candidates = append(candidates, SteamLibraries(fs, install)...)
	}
	candidates = append(candidates, extra...)

	seen := make(map[string]bool)
	var roots []string
	for _, c := range candidates {
		c = filepath.Clean(c)
		if seen[c] || !fsops.IsDir(fs, c) {
			continue
		}
		seen[c] = true
		roots = append(roots, c)
	}
	return roots
}

// SteamLibraries returns the game folders of the Steam install at install:
// its own steamapps/common, the common folder of every library listed in
// libraryfolders.vdf, and the Proton prefix and shader cache folders.
// Only existing directories are returned.
func SteamLibraries(fs fsops.FS, install string) []string {
	steamapps := filepath.Join(install, "steamapps")
	var out []string
	add := func(p string) {
		if fsops.IsDir(fs, p) {
			out = append(out, p)
		}
	}

	add(filepath.Join(steamapps, "common"))

	if data, err := fs.ReadFile(filepath.Join(steamapps, "libraryfolders.vdf")); err == nil {
		for _, lib := range parseLibraryFolders(data) {
			add(filepath.Join(lib, "steamapps", "common"))
		}
	}

	add(filepath.Join(steamapps, "compatdata"))
	add(filepath.Join(steamapps, "shadercache"))
	return out
}

// parseLibraryFolders extracts the library paths from the "path" lines of
// a libraryfolders.vdf file, e.g.
//
//	"path"		"D:\\SteamLibrary"
func parseLibraryFolders(data []byte) []string {
	var libs []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, `"path"`) {
			continue
		}
		fields := strings.Split(line, `"`)
		if len(fields) < 4 || fields[3] == "" {
			continue
		}
		lib := strings.ReplaceAll(fields[3], `\\`, "/")
		libs = append(libs, filepath.FromSlash(lib))
	}
	return libs
}
