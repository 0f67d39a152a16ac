// Package persist moves save files between disk and the document model.
//
// Loading reads the file, decodes it with the save codec, and parses the
// JSON. Saving copies the current file to <path>.bak first, then encodes
// and atomically replaces the target. A failure at any stage of a load
// leaves the caller's state untouched; a failure after the backup leaves
// the .bak as the recovery point.
package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/danieljhkim/rpgsave/internal/clock"
	"github.com/danieljhkim/rpgsave/internal/codec"
	"github.com/danieljhkim/rpgsave/internal/document"
	"github.com/danieljhkim/rpgsave/internal/fsops"
	"github.com/danieljhkim/rpgsave/internal/hash"
)

// BackupSuffix is appended to a save path to form its backup path.
const BackupSuffix = ".bak"

// defaultPerm is used when the target does not exist yet.
const defaultPerm os.FileMode = 0644

// BackupPath returns the backup location for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Loaded is the result of a successful load.
type Loaded struct {
	Path  string
	Value document.Value
	// Fingerprint identifies the exact bytes that were read.
	Fingerprint string
	LoadedAt    time.Time
	Size        int
}

// Saved is the result of a successful save.
type Saved struct {
	Path string
	// Backup is the .bak path, or "" when there was no file to back up.
	Backup      string
	Fingerprint string
	SavedAt     time.Time
	Size        int
}

// Gateway performs load and save against an FS.
type Gateway struct {
	fs     fsops.FS
	codec  codec.Codec
	hasher hash.Hasher
	clock  clock.Clock
	logger *slog.Logger
}

// NewGateway creates a Gateway.
func NewGateway(fs fsops.FS, c codec.Codec, hasher hash.Hasher, clk clock.Clock, logger *slog.Logger) *Gateway {
	return &Gateway{
		fs:     fs,
		codec:  c,
		hasher: hasher,
		clock:  clk,
		logger: logger,
	}
}

// Load reads, decodes, and parses the save file at path.
func (g *Gateway) Load(path string) (*Loaded, error) {
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Stage: StageRead, Path: path, Err: err}
	}

	text, err := g.codec.Decode(string(data))
	if err != nil {
		return nil, &LoadError{Stage: StageDecode, Path: path, Err: err}
	}
	if text == "" {
		return nil, &LoadError{Stage: StageDecode, Path: path, Err: &codec.DecodeError{Offset: -1, Reason: "empty result"}}
	}

	v, err := document.Parse(text)
	if err != nil {
		return nil, &LoadError{Stage: StageParse, Path: path, Err: err}
	}

	loaded := &Loaded{
		Path:        path,
		Value:       v,
		Fingerprint: g.hasher.HashBytes(data),
		LoadedAt:    g.clock.Now(),
		Size:        len(data),
	}
	g.logger.Info("loaded save file", "path", path, "bytes", len(data), "json_bytes", len(text))
	return loaded, nil
}

// Save backs up the current file at path, then writes v encoded in its
// place. When path does not exist yet the backup step is skipped.
func (g *Gateway) Save(path string, v document.Value) (*Saved, error) {
	perm := defaultPerm
	backup := ""

	info, err := g.fs.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil, &BackupError{Path: path, Backup: BackupPath(path), Err: fmt.Errorf("%s is a directory", path)}
		}
		perm = info.Mode().Perm()
		backup = BackupPath(path)
		if err := g.fs.Copy(path, backup); err != nil {
			return nil, &BackupError{Path: path, Backup: backup, Err: err}
		}
		g.logger.Debug("backed up save file", "path", path, "backup", backup)
	case errors.Is(err, fs.ErrNotExist):
		g.logger.Debug("no existing file to back up", "path", path)
	default:
		return nil, &BackupError{Path: path, Backup: BackupPath(path), Err: err}
	}

	encoded, err := g.codec.Encode(document.Serialize(v))
	if err != nil {
		return nil, &WriteError{Path: path, Backup: backup, Err: fmt.Errorf("failed to encode document: %w", err)}
	}

	data := []byte(encoded)
	if err := g.fs.AtomicWrite(path, data, perm); err != nil {
		g.logger.Error("save write failed", "path", path, "backup", backup, "err", err)
		return nil, &WriteError{Path: path, Backup: backup, Err: err}
	}

	saved := &Saved{
		Path:        path,
		Backup:      backup,
		Fingerprint: g.hasher.HashBytes(data),
		SavedAt:     g.clock.Now(),
		Size:        len(data),
	}
	g.logger.Info("saved save file", "path", path, "bytes", len(data))
	return saved, nil
}

// Fingerprint hashes the file currently at path, for comparison against
// Loaded.Fingerprint or Saved.Fingerprint. The content is read through the
// same FS as Load, so both sides hash the same bytes.
func (g *Gateway) Fingerprint(path string) (string, error) {
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}
	return g.hasher.HashBytes(data), nil
}
