package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/rpgsave/internal/engine"
)

// eventMsg carries a session event into the update loop.
type eventMsg engine.Event

// listener forwards session events to the program. Scan and file-watch
// events block while the buffer is full so they are never dropped, and give
// up once the listener is closed. Document changes are raised by the update
// loop itself, which is also the only reader, so they are dropped rather than
// queued when the buffer is full; the model rebuilds after its own edits.
type listener struct {
	ch   chan engine.Event
	done chan struct{}
	once sync.Once
}

func newListener(size int) *listener {
	return &listener{
		ch:   make(chan engine.Event, size),
		done: make(chan struct{}),
	}
}

func (l *listener) HandleEvent(ev engine.Event) {
	if ev.Kind == engine.EventDocumentChanged {
		select {
		case l.ch <- ev:
		default:
		}
		return
	}
	select {
	case l.ch <- ev:
	case <-l.done:
	}
}

func (l *listener) close() {
	l.once.Do(func() { close(l.done) })
}

// waitForEvent returns the next session event as a message. Update re-arms
// it after every event.
func waitForEvent(l *listener) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-l.ch:
			return eventMsg(ev)
		case <-l.done:
			return nil
		}
	}
}
