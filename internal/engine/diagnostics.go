package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// BundleExt is the file extension of diagnostics bundles.
const BundleExt = ".json.zst"

// Bundle is the content of a diagnostics bundle: what failed and the full
// document at that moment.
type Bundle struct {
	Session   string          `json:"session"`
	CreatedAt time.Time       `json:"created_at"`
	File      string          `json:"file,omitempty"`
	Op        string          `json:"op,omitempty"`
	Path      string          `json:"path,omitempty"`
	Error     string          `json:"error,omitempty"`
	UndoDepth int             `json:"undo_depth"`
	RedoDepth int             `json:"redo_depth"`
	Document  json.RawMessage `json:"document,omitempty"`
}

// ExportDiagnostics writes a bundle with the current document and returns
// its path.
func (s *Session) ExportDiagnostics() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeBundleLocked(nil)
}

func (s *Session) writeBundleLocked(opErr *OperationError) (string, error) {
	if s.paths == nil {
		return "", fmt.Errorf("no diagnostics directory configured")
	}

	b := Bundle{
		Session:   s.id,
		CreatedAt: s.clock.Now(),
		File:      s.file,
		UndoDepth: s.history.UndoDepth(),
		RedoDepth: s.history.RedoDepth(),
	}
	if opErr != nil {
		b.Op = opErr.Op
		b.Path = opErr.Path.Pointer()
		b.Error = opErr.Err.Error()
	}
	if s.store.Loaded() {
		b.Document = json.RawMessage(s.store.Pretty())
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return "", fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	zw, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	compressed := zw.EncodeAll(buf.Bytes(), nil)
	_ = zw.Close()

	if err := s.fs.MkdirAll(s.paths.Diagnostics, 0755); err != nil {
		return "", fmt.Errorf("failed to create diagnostics directory: %w", err)
	}
	path := filepath.Join(s.paths.Diagnostics, uuid.NewString()+BundleExt)
	if err := s.fs.AtomicWrite(path, compressed, 0644); err != nil {
		return "", fmt.Errorf("failed to write diagnostics: %w", err)
	}

	s.logger.Info("wrote diagnostics bundle", "path", path, "bytes", len(compressed))
	return path, nil
}

// ReadBundle decodes a bundle written by ExportDiagnostics.
func ReadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer zr.Close()

	raw, err := zr.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bundle: %w", err)
	}
	return &b, nil
}
