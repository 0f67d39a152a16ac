package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/danieljhkim/rpgsave/internal/coerce"
	"github.com/danieljhkim/rpgsave/internal/display"
	"github.com/danieljhkim/rpgsave/internal/document"
)

// OpenDocument loads the save file at path and makes it the session's
// document. The undo history is cleared. On failure the previously open
// document, if any, stays open.
func (s *Session) OpenDocument(path string) (*OpenResult, error) {
	if err := s.acquire("open"); err != nil {
		return nil, err
	}
	defer s.release()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &OperationError{Op: "open", File: path, Err: err}
	}

	loaded, err := s.gateway.Load(abs)
	if err != nil {
		s.logger.Warn("open failed", "path", abs, "err", err)
		return nil, &OperationError{Op: "open", File: abs, Err: err}
	}

	s.mu.Lock()
	s.store.Reset(loaded.Value)
	s.history.Reset()
	s.file = abs
	s.fingerprint = loaded.Fingerprint
	s.savedTop = nil
	if err := s.restartWatchLocked(); err != nil {
		s.logger.Warn("file watch unavailable", "path", abs, "err", err)
	}
	s.mu.Unlock()

	s.notify(EventDocumentChanged, abs, "opened")
	return &OpenResult{
		Path:        abs,
		Kind:        loaded.Value.Kind(),
		Size:        loaded.Size,
		Fingerprint: loaded.Fingerprint,
		LoadedAt:    loaded.LoadedAt,
	}, nil
}

// SaveDocument writes the document back to its file, keeping a .bak of the
// previous content. It fails with ErrModifiedExternally if the file changed
// on disk since it was loaded or last saved.
func (s *Session) SaveDocument() (*SaveResult, error) {
	return s.save(false)
}

// ForceSaveDocument is SaveDocument without the external-change check.
func (s *Session) ForceSaveDocument() (*SaveResult, error) {
	return s.save(true)
}

func (s *Session) save(force bool) (*SaveResult, error) {
	if err := s.acquire("save"); err != nil {
		return nil, err
	}
	defer s.release()

	s.mu.Lock()
	if !s.store.Loaded() || s.file == "" {
		s.mu.Unlock()
		return nil, &OperationError{Op: "save", Err: ErrNoDocument}
	}
	file, expected := s.file, s.fingerprint
	value := s.store.Snapshot()
	top := s.history.Top()
	s.mu.Unlock()

	if !force {
		current, err := s.gateway.Fingerprint(file)
		switch {
		case err == nil && current != expected:
			return nil, &OperationError{Op: "save", File: file, Err: ErrModifiedExternally}
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, &OperationError{Op: "save", File: file, Err: err}
		}
	}

	saved, err := s.gateway.Save(file, value)
	if err != nil {
		return nil, &OperationError{Op: "save", File: file, Err: err}
	}

	s.mu.Lock()
	s.fingerprint = saved.Fingerprint
	s.savedTop = top
	s.mu.Unlock()

	s.notify(EventDocumentChanged, file, "saved")
	return &SaveResult{
		Path:    file,
		Backup:  saved.Backup,
		Size:    saved.Size,
		SavedAt: saved.SavedAt,
	}, nil
}

// EditLeaf replaces the scalar at path with the value coerced from raw.
// Objects and arrays cannot be edited this way. When the value is
// unchanged nothing is recorded and Changed is false.
func (s *Session) EditLeaf(path document.Path, raw string) (*EditResult, error) {
	if err := s.acquire("edit"); err != nil {
		return nil, err
	}
	defer s.release()

	res, err := s.editLeaf(path, raw)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		s.notify(EventDocumentChanged, s.CurrentFile(), "edited")
	}
	return res, nil
}

func (s *Session) editLeaf(path document.Path, raw string) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Loaded() {
		return nil, &OperationError{Op: "edit", Path: path, Err: ErrNoDocument}
	}

	current, err := s.store.Get(path)
	if err != nil {
		return nil, s.editFailureLocked("edit", path, "", err)
	}
	if current.IsContainer() {
		return nil, s.editFailureLocked("edit", path, display.ValueText(current),
			fmt.Errorf("%w: %s is %s", ErrNotEditable, path, current.Kind()))
	}

	res, err := s.setLocked(path, coerce.Coerce(raw))
	if err != nil {
		return nil, s.editFailureLocked("edit", path, display.ValueText(current), err)
	}
	res.Warning = coerce.WarnOver(current, raw)
	return res, nil
}

// SetValue writes v at path. Unlike EditLeaf it accepts any value, and a
// missing key on an existing object is inserted.
func (s *Session) SetValue(path document.Path, v document.Value) (*EditResult, error) {
	if err := s.acquire("set"); err != nil {
		return nil, err
	}
	defer s.release()

	res, err := s.setValue(path, v)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		s.notify(EventDocumentChanged, s.CurrentFile(), "edited")
	}
	return res, nil
}

func (s *Session) setValue(path document.Path, v document.Value) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Loaded() {
		return nil, &OperationError{Op: "set", Path: path, Err: ErrNoDocument}
	}

	revert := ""
	if current, err := s.store.Get(path); err == nil {
		revert = display.ValueText(current)
	}
	res, err := s.setLocked(path, v)
	if err != nil {
		return nil, s.editFailureLocked("set", path, revert, err)
	}
	return res, nil
}

func (s *Session) setLocked(path document.Path, v document.Value) (*EditResult, error) {
	cmd, err := s.store.Set(path, v)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		return &EditResult{Path: path, Changed: false, Old: v, New: v}, nil
	}

	s.history.Commit(cmd)
	s.logger.Debug("edit committed", "path", cmd.Path.Pointer(), "inserted", cmd.Inserted)

	res := &EditResult{Path: cmd.Path, Changed: true, Old: cmd.Old.Clone(), New: cmd.New.Clone(), Inserted: cmd.Inserted}
	if cmd.Inserted {
		res.Old = document.NewNull()
	}
	return res, nil
}

// editFailureLocked builds the error for a rejected edit, writing a
// diagnostics bundle first when verbose diagnostics are on.
func (s *Session) editFailureLocked(op string, path document.Path, revert string, err error) *OperationError {
	opErr := &OperationError{Op: op, File: s.file, Path: path, Err: err, Revert: revert}
	s.logger.Warn("edit rejected", "path", path.Pointer(), "err", err)

	if s.cfg.Diagnostics.Verbose {
		bundle, bErr := s.writeBundleLocked(opErr)
		if bErr != nil {
			s.logger.Error("failed to write diagnostics", "err", bErr)
		} else {
			opErr.Bundle = bundle
		}
	}
	return opErr
}

// Undo reverts the most recent edit. It returns nil when there is nothing
// to undo.
func (s *Session) Undo() (*document.Command, error) {
	return s.step("undo")
}

// Redo re-applies the most recently undone edit. It returns nil when there
// is nothing to redo.
func (s *Session) Redo() (*document.Command, error) {
	return s.step("redo")
}

func (s *Session) step(op string) (*document.Command, error) {
	if err := s.acquire(op); err != nil {
		return nil, err
	}
	defer s.release()

	s.mu.Lock()
	var cmd *document.Command
	var err error
	if op == "undo" {
		cmd, err = s.history.Undo(s.store)
	} else {
		cmd, err = s.history.Redo(s.store)
	}
	file := s.file
	s.mu.Unlock()

	if err != nil {
		return nil, &OperationError{Op: op, File: file, Err: err}
	}
	if cmd != nil {
		s.notify(EventDocumentChanged, file, op)
	}
	return cmd, nil
}

// CanUndo reports whether there is an edit to undo.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether there is an edit to redo.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Dirty reports whether the document differs from what was last loaded or
// saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Loaded() && s.history.Top() != s.savedTop
}

// CurrentFile returns the path of the open file, or "".
func (s *Session) CurrentFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Get returns a copy of the value at path.
func (s *Session) Get(path document.Path) (document.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.Loaded() {
		return document.Value{}, &OperationError{Op: "get", Path: path, Err: ErrNoDocument}
	}
	v, err := s.store.Get(path)
	if err != nil {
		return document.Value{}, &OperationError{Op: "get", File: s.file, Path: path, Err: err}
	}
	return v, nil
}

// JSON renders the current document, compact or indented.
func (s *Session) JSON(pretty bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.Loaded() {
		return "", ErrNoDocument
	}
	if pretty {
		return s.store.Pretty(), nil
	}
	return s.store.Serialize(), nil
}

// Tree builds a fresh display tree of the document, or returns nil when no
// document is open.
func (s *Session) Tree() *display.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.Loaded() {
		return nil
	}
	return display.Build(s.store.Snapshot(), display.Options{Beautify: s.beautify})
}

// SetBeautify switches display names between raw keys and beautified
// labels.
func (s *Session) SetBeautify(on bool) {
	s.mu.Lock()
	s.beautify = on
	s.mu.Unlock()
}

// Beautify reports whether display names are beautified.
func (s *Session) Beautify() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beautify
}
