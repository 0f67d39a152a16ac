package history

import (
	"errors"
	"testing"

	"github.com/danieljhkim/rpgsave/internal/coerce"
	"github.com/danieljhkim/rpgsave/internal/document"
)

func setupStore(t *testing.T, text string) *document.Store {
	t.Helper()

	s := document.NewStore()
	if err := s.Load(text); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func edit(t *testing.T, s *document.Store, l *Log, path document.Path, raw string) {
	t.Helper()

	cmd, err := s.Set(path, coerce.Coerce(raw))
	if err != nil {
		t.Fatalf("Set(%v) error = %v", path, err)
	}
	l.Commit(cmd)
}

func TestLog_Scenario(t *testing.T) {
	s := setupStore(t, `{"a":{"b":[1,2,3]}}`)
	l := NewLog(0)

	edit(t, s, l, document.Path{"a", "b", "1"}, "99")
	if s.Serialize() != `{"a":{"b":[1,99,3]}}` {
		t.Fatalf("after edit = %s", s.Serialize())
	}
	if l.UndoDepth() != 1 {
		t.Fatalf("UndoDepth() = %d, want 1", l.UndoDepth())
	}
	top := l.Top()
	if top.Old.String() != "2" || top.New.String() != "99" {
		t.Errorf("command = %s -> %s, want 2 -> 99", top.Old, top.New)
	}

	if _, err := l.Undo(s); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if s.Serialize() != `{"a":{"b":[1,2,3]}}` {
		t.Errorf("after undo = %s", s.Serialize())
	}
	if !l.CanRedo() {
		t.Error("CanRedo() = false after undo")
	}

	edit(t, s, l, document.Path{"a", "b", "0"}, "5")
	if l.CanRedo() {
		t.Error("new edit after undo did not clear redo")
	}
}

func TestLog_UndoRedoInverse(t *testing.T) {
	s := setupStore(t, `{"name":"Harold","gold":100,"flags":[true,false],"party":{"size":1}}`)
	l := NewLog(0)

	edits := []struct {
		path document.Path
		raw  string
	}{
		{document.Path{"name"}, "Therese"},
		{document.Path{"gold"}, "2500"},
		{document.Path{"flags", "1"}, "true"},
		{document.Path{"party", "size"}, "4"},
		{document.Path{"party", "leader"}, "Harold"},
		{document.Path{"gold"}, "none"},
	}
	for _, e := range edits {
		edit(t, s, l, e.path, e.raw)
	}
	final := s.Serialize()

	for l.CanUndo() {
		if _, err := l.Undo(s); err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
	}
	if got := s.Serialize(); got != `{"name":"Harold","gold":100,"flags":[true,false],"party":{"size":1}}` {
		t.Errorf("after undoing all = %s", got)
	}

	for l.CanRedo() {
		if _, err := l.Redo(s); err != nil {
			t.Fatalf("Redo() error = %v", err)
		}
	}
	if got := s.Serialize(); got != final {
		t.Errorf("after redoing all = %s, want %s", got, final)
	}
}

func TestLog_UndoKThenCommitClearsRedo(t *testing.T) {
	s := setupStore(t, `{"x":0}`)
	l := NewLog(0)

	for _, raw := range []string{"1", "2", "3", "4"} {
		edit(t, s, l, document.Path{"x"}, raw)
	}
	for i := 0; i < 3; i++ {
		if _, err := l.Undo(s); err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
	}
	if l.RedoDepth() != 3 {
		t.Fatalf("RedoDepth() = %d, want 3", l.RedoDepth())
	}

	edit(t, s, l, document.Path{"x"}, "9")
	if l.RedoDepth() != 0 {
		t.Errorf("RedoDepth() = %d after commit, want 0", l.RedoDepth())
	}
	if l.UndoDepth() != 2 {
		t.Errorf("UndoDepth() = %d, want 2", l.UndoDepth())
	}
}

func TestLog_EmptyStacksAreNoOps(t *testing.T) {
	s := setupStore(t, `{"x":0}`)
	l := NewLog(0)

	cmd, err := l.Undo(s)
	if cmd != nil || err != nil {
		t.Errorf("Undo() on empty log = %v, %v", cmd, err)
	}
	cmd, err = l.Redo(s)
	if cmd != nil || err != nil {
		t.Errorf("Redo() on empty log = %v, %v", cmd, err)
	}
	if l.CanUndo() || l.CanRedo() {
		t.Error("empty log reports undo/redo available")
	}
}

func TestLog_NilCommitIgnored(t *testing.T) {
	s := setupStore(t, `{"x":0}`)
	l := NewLog(0)

	edit(t, s, l, document.Path{"x"}, "0")
	if l.CanUndo() {
		t.Error("no-op edit was recorded")
	}
}

func TestLog_Capacity(t *testing.T) {
	s := setupStore(t, `{"x":0}`)
	l := NewLog(2)

	for _, raw := range []string{"1", "2", "3"} {
		edit(t, s, l, document.Path{"x"}, raw)
	}
	if l.UndoDepth() != 2 {
		t.Fatalf("UndoDepth() = %d, want 2", l.UndoDepth())
	}
	for l.CanUndo() {
		if _, err := l.Undo(s); err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
	}
	if got := s.Serialize(); got != `{"x":1}` {
		t.Errorf("oldest reachable state = %s, want {\"x\":1}", got)
	}
}

type failingApplier struct{}

var errApply = errors.New("apply failed")

func (failingApplier) Apply(document.Path, document.Value) error { return errApply }
func (failingApplier) Remove(document.Path) error                { return errApply }

func TestLog_FailedApplyKeepsCommand(t *testing.T) {
	l := NewLog(0)
	l.Commit(&document.Command{Path: document.Path{"x"}, Old: document.NewInt(0), New: document.NewInt(1)})

	if _, err := l.Undo(failingApplier{}); !errors.Is(err, errApply) {
		t.Fatalf("Undo() error = %v, want errApply", err)
	}
	if l.UndoDepth() != 1 || l.RedoDepth() != 0 {
		t.Errorf("depths = %d/%d after failed undo, want 1/0", l.UndoDepth(), l.RedoDepth())
	}

	s := setupStore(t, `{"x":1}`)
	if _, err := l.Undo(s); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if _, err := l.Redo(failingApplier{}); !errors.Is(err, errApply) {
		t.Fatalf("Redo() error = %v, want errApply", err)
	}
	if l.UndoDepth() != 0 || l.RedoDepth() != 1 {
		t.Errorf("depths = %d/%d after failed redo, want 0/1", l.UndoDepth(), l.RedoDepth())
	}
}
