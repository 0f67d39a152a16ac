package integration

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/rpgsave/internal/clock"
	"github.com/danieljhkim/rpgsave/internal/codec"
	"github.com/danieljhkim/rpgsave/internal/config"
	"github.com/danieljhkim/rpgsave/internal/engine"
	"github.com/danieljhkim/rpgsave/internal/fsops"
	"github.com/danieljhkim/rpgsave/internal/hash"
	"github.com/danieljhkim/rpgsave/internal/logging"
)

// memFS is an in-memory fsops.FS. Paths are slash-rooted and the scanner
// may use it from its own goroutine.
type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

func newMemFS() *memFS {
	return &memFS{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
	}
}

func (m *memFS) mkdirs(path string) {
	for p := filepath.Clean(path); !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
}

func (m *memFS) Stat(path string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if data, ok := m.files[path]; ok {
		return &memInfo{name: filepath.Base(path), size: int64(len(data)), mode: 0644}, nil
	}
	if m.dirs[path] {
		return &memInfo{name: filepath.Base(path), mode: fs.ModeDir | 0755}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *memFS) ReadDir(path string) ([]os.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if !m.dirs[path] {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}

	prefix := strings.TrimSuffix(path, "/") + "/"
	var entries []os.DirEntry
	for p, data := range m.files {
		if filepath.Dir(p) == path {
			entries = append(entries, fs.FileInfoToDirEntry(&memInfo{name: strings.TrimPrefix(p, prefix), size: int64(len(data)), mode: 0644}))
		}
	}
	for p := range m.dirs {
		if p != path && filepath.Dir(p) == path {
			entries = append(entries, fs.FileInfoToDirEntry(&memInfo{name: strings.TrimPrefix(p, prefix), mode: fs.ModeDir | 0755}))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *memFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirs(path)
	return nil
}

func (m *memFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filepath.Clean(path))
	delete(m.dirs, filepath.Clean(path))
	return nil
}

func (m *memFS) Copy(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(src)]
	if !ok {
		return &fs.PathError{Op: "copy", Path: src, Err: fs.ErrNotExist}
	}
	m.files[filepath.Clean(dst)] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirs(filepath.Dir(path))
	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.files[filepath.Clean(path)]; ok {
		return append([]byte(nil), data...), nil
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

func (m *memFS) Exists(path string) (bool, error) {
	_, err := m.Stat(path)
	return err == nil, nil
}

// touch creates empty files.
func (m *memFS) touch(paths ...string) {
	for _, p := range paths {
		_ = m.AtomicWrite(p, nil, 0644)
	}
}

type memInfo struct {
	name string
	size int64
	mode os.FileMode
}

func (i *memInfo) Name() string       { return i.name }
func (i *memInfo) Size() int64        { return i.size }
func (i *memInfo) Mode() os.FileMode  { return i.mode }
func (i *memInfo) ModTime() time.Time { return time.Time{} }
func (i *memInfo) IsDir() bool        { return i.mode.IsDir() }
func (i *memInfo) Sys() interface{}   { return nil }

// setupSession creates a session over fsys with a fake clock and hasher.
func setupSession(t *testing.T, fsys fsops.FS, hasher hash.Hasher) *engine.Session {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("in-memory paths are slash-rooted")
	}

	cfg := config.Default()
	cfg.Watch.Enabled = false
	s := engine.New(
		fsys,
		codec.NewLZString(),
		hasher,
		clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		cfg,
		config.PathsFromRoot("/data"),
		logging.Discard(),
	)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func encodeSave(t *testing.T, jsonText string) []byte {
	t.Helper()
	enc, err := codec.NewLZString().Encode(jsonText)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return []byte(enc)
}

func decodeFile(t *testing.T, m *memFS, path string) string {
	t.Helper()
	data, err := m.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", path, err)
	}
	text, err := codec.NewLZString().Decode(string(data))
	if err != nil {
		t.Fatalf("Decode(%s) failed: %v", path, err)
	}
	return text
}

// makePackagedGame lays out a deployed game with Game.exe next to www/.
func makePackagedGame(m *memFS, root string) {
	m.touch(
		root+"/Game.exe",
		root+"/www/index.html",
		root+"/www/js/rpg_core.js",
		root+"/www/js/rpg_managers.js",
	)
}

// makeLooseGame lays out a web build without the executable.
func makeLooseGame(m *memFS, root string) {
	m.touch(
		root+"/index.html",
		root+"/js/rpg_core.js",
		root+"/js/rpg_managers.js",
		root+"/js/plugins.js",
	)
}
