package scanner

import (
	"path/filepath"
	"strings"

	"github.com/danieljhkim/rpgsave/internal/fsops"
)

// Packaged games ship the web build under www/ next to Game.exe.
var packagedMarkers = []string{
	"www/index.html",
	"www/js/rpg_core.js",
	"www/js/rpg_managers.js",
}

// Loose games are the web build itself.
var looseMarkers = []string{
	"index.html",
	"js/rpg_core.js",
	"js/rpg_managers.js",
	"js/plugins.js",
}

// Classify reports whether dir holds an RPG Maker MV game and returns the
// game root. A directory named www is normalized to its parent.
func Classify(fs fsops.FS, dir string) (string, bool) {
	gameRoot := dir
	if isWWW(dir) {
		gameRoot = filepath.Dir(dir)
	}

	if allExist(fs, dir, packagedMarkers) && fsops.IsFile(fs, filepath.Join(gameRoot, "Game.exe")) {
		return gameRoot, true
	}
	if allExist(fs, dir, looseMarkers) {
		return gameRoot, true
	}
	return "", false
}

func isWWW(dir string) bool {
	return strings.EqualFold(filepath.Base(dir), "www")
}

func allExist(fs fsops.FS, dir string, rel []string) bool {
	for _, r := range rel {
		if !fsops.IsFile(fs, filepath.Join(dir, filepath.FromSlash(r))) {
			return false
		}
	}
	return true
}
