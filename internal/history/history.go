// Package history keeps the linear undo/redo log of committed edits.
package history

import (
	"fmt"

	"github.com/danieljhkim/rpgsave/internal/document"
)

// Applier writes recorded values back into a document.
// *document.Store implements it.
type Applier interface {
	Apply(p document.Path, v document.Value) error
	Remove(p document.Path) error
}

// Log holds the undo and redo stacks. History is strictly linear: a new
// commit discards everything that could have been redone.
type Log struct {
	undo []*document.Command
	redo []*document.Command

	// limit caps the undo stack; 0 means unlimited.
	limit int
}

// NewLog creates an empty log. limit caps how many commands can be undone;
// 0 disables the cap.
func NewLog(limit int) *Log {
	if limit < 0 {
		limit = 0
	}
	return &Log{limit: limit}
}

// Commit records cmd and clears the redo stack. A nil command is ignored.
func (l *Log) Commit(cmd *document.Command) {
	if cmd == nil {
		return
	}
	l.undo = append(l.undo, cmd)
	l.redo = nil
	if l.limit > 0 && len(l.undo) > l.limit {
		drop := len(l.undo) - l.limit
		l.undo = append(l.undo[:0:0], l.undo[drop:]...)
	}
}

// Undo reverts the most recent command. It returns nil when there is
// nothing to undo. If the applier fails the command stays on the undo stack.
func (l *Log) Undo(a Applier) (*document.Command, error) {
	if len(l.undo) == 0 {
		return nil, nil
	}
	cmd := l.undo[len(l.undo)-1]

	var err error
	if cmd.Inserted {
		err = a.Remove(cmd.Path)
	} else {
		err = a.Apply(cmd.Path, cmd.Old)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to undo edit at %s: %w", cmd.Path, err)
	}

	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, cmd)
	return cmd, nil
}

// Redo re-applies the most recently undone command. It returns nil when
// there is nothing to redo. If the applier fails the command stays on the
// redo stack.
func (l *Log) Redo(a Applier) (*document.Command, error) {
	if len(l.redo) == 0 {
		return nil, nil
	}
	cmd := l.redo[len(l.redo)-1]

	if err := a.Apply(cmd.Path, cmd.New); err != nil {
		return nil, fmt.Errorf("failed to redo edit at %s: %w", cmd.Path, err)
	}

	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, cmd)
	return cmd, nil
}

// CanUndo reports whether the undo stack is non-empty.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// UndoDepth returns the number of undoable commands.
func (l *Log) UndoDepth() int { return len(l.undo) }

// RedoDepth returns the number of redoable commands.
func (l *Log) RedoDepth() int { return len(l.redo) }

// Top returns the command that the next Undo would revert, or nil.
// Callers compare it across calls to tell whether the document has moved
// away from a saved state.
func (l *Log) Top() *document.Command {
	if len(l.undo) == 0 {
		return nil
	}
	return l.undo[len(l.undo)-1]
}

// Reset empties both stacks, e.g. after a new document is loaded.
func (l *Log) Reset() {
	l.undo = nil
	l.redo = nil
}
