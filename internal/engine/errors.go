package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danieljhkim/rpgsave/internal/document"
)

var (
	// ErrBusy indicates another session operation is still in flight.
	ErrBusy = errors.New("another operation is in progress")

	// ErrNoDocument indicates no save file is open.
	ErrNoDocument = errors.New("no document loaded")

	// ErrNotEditable indicates the target of a leaf edit is an object or array.
	ErrNotEditable = errors.New("only scalar values can be edited")

	// ErrModifiedExternally indicates the file on disk changed since it was
	// loaded or last saved.
	ErrModifiedExternally = errors.New("file was modified by another program")

	// ErrScanRunning indicates a game scan is already in progress.
	ErrScanRunning = errors.New("a game scan is already running")

	// ErrNoScan indicates there is no running game scan.
	ErrNoScan = errors.New("no game scan is running")
)

// OperationError wraps a failed session operation.
type OperationError struct {
	// Op is the session operation, e.g. "open", "save" or "edit".
	Op string
	// File is the save file the operation targeted, if any.
	File string
	// Path is the document path the operation targeted, if any.
	Path document.Path
	Err  error
	// Revert is the display text of the value before the edit, for the UI
	// to restore into the edit box. Empty when there is nothing to restore.
	Revert string
	// Bundle is the diagnostics bundle written for this failure, if any.
	Bundle string
}

func (e *OperationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" failed")
	if e.File != "" {
		fmt.Fprintf(&b, " for %s", e.File)
	}
	if e.Path != nil {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Bundle != "" {
		fmt.Fprintf(&b, " (diagnostics written to %s)", e.Bundle)
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
