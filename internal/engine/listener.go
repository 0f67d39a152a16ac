package engine

import "time"

// EventKind identifies a session notification.
type EventKind int

const (
	EventScanProgress EventKind = iota
	EventGameFound
	EventScanWarning
	EventScanComplete
	EventScanCancelled
	// EventDocumentChanged follows every load, edit, undo, redo and save.
	EventDocumentChanged
	// EventExternalChange reports that the open file was changed on disk
	// by another program.
	EventExternalChange
)

func (k EventKind) String() string {
	switch k {
	case EventScanProgress:
		return "scan-progress"
	case EventGameFound:
		return "game-found"
	case EventScanWarning:
		return "scan-warning"
	case EventScanComplete:
		return "scan-complete"
	case EventScanCancelled:
		return "scan-cancelled"
	case EventDocumentChanged:
		return "document-changed"
	case EventExternalChange:
		return "external-change"
	default:
		return "unknown"
	}
}

// Event is a notification delivered to the session Listener.
type Event struct {
	Kind    EventKind
	Message string
	// Path is a game root, search root or save file, depending on Kind.
	Path string
	At   time.Time
}

// Listener receives session notifications. Scan and file-watch events are
// delivered from background goroutines; implementations must not block
// for long and must not call back into the session synchronously.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) {
	f(ev)
}

type nopListener struct{}

func (nopListener) HandleEvent(Event) {}
