// Package scanner finds installed RPG Maker MV games.
//
// A scan walks each search root two levels deep (children, then
// grandchildren), classifies every directory it meets, and reports what it
// finds on a single ordered event channel. Scans run on their own
// goroutine and can be paused, resumed and cancelled at any time.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/danieljhkim/rpgsave/internal/clock"
	"github.com/danieljhkim/rpgsave/internal/fsops"
)

// EventKind identifies a scan event.
type EventKind int

const (
	EventProgress EventKind = iota
	EventFound
	EventWarning
	EventComplete
	EventCancelled
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventFound:
		return "found"
	case EventWarning:
		return "warning"
	case EventComplete:
		return "complete"
	case EventCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one message from a running scan.
type Event struct {
	Kind    EventKind
	Message string
	// Path is the game root for EventFound and the search root for
	// EventProgress and EventWarning.
	Path string
	At   time.Time
}

// State is the lifecycle state of a scan.
type State int

const (
	StateIdle State = iota
	StateScanning
	StatePaused
	StateComplete
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// eventBuffer is the capacity of a scan's event channel.
const eventBuffer = 64

// Scanner starts scans against an FS.
type Scanner struct {
	fs     fsops.FS
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a Scanner.
func New(fs fsops.FS, clk clock.Clock, logger *slog.Logger) *Scanner {
	return &Scanner{fs: fs, clock: clk, logger: logger}
}

// Scan is a running or finished scan.
type Scan struct {
	s      *Scanner
	roots  []string
	events chan Event
	done   chan struct{}
	cancel context.CancelFunc

	abandonOnce sync.Once
	abandoned   chan struct{}

	mu     sync.Mutex
	cond   *sync.Cond
	state  State
	paused bool
	found  []string
}

// Start begins scanning roots in order on a new goroutine. Cancelling ctx
// has the same effect as Cancel.
func (s *Scanner) Start(ctx context.Context, roots []string) *Scan {
	ctx, cancel := context.WithCancel(ctx)
	sc := &Scan{
		s:      s,
		roots:  append([]string(nil), roots...),
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
		state:  StateScanning,

		abandoned: make(chan struct{}),
	}
	sc.cond = sync.NewCond(&sc.mu)

	stop := context.AfterFunc(ctx, func() {
		sc.mu.Lock()
		sc.cond.Broadcast()
		sc.mu.Unlock()
	})

	go func() {
		defer close(sc.done)
		defer stop()
		defer cancel()
		sc.run(ctx)
	}()
	return sc
}

// Events returns the event channel. It is closed after the terminal event.
// Consumers must drain it until closed, or call Abandon.
func (sc *Scan) Events() <-chan Event {
	return sc.events
}

// State returns the current state.
func (sc *Scan) State() State {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state
}

// Found returns a copy of the game roots found so far, in discovery order.
func (sc *Scan) Found() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return append([]string(nil), sc.found...)
}

// Pause stops the scan before its next candidate. It has no effect on a
// finished scan.
func (sc *Scan) Pause() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.state == StateScanning {
		sc.paused = true
		sc.state = StatePaused
	}
}

// Resume continues a paused scan.
func (sc *Scan) Resume() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.state == StatePaused {
		sc.paused = false
		sc.state = StateScanning
		sc.cond.Broadcast()
	}
}

// Cancel stops the scan, paused or not. The scan emits EventCancelled
// unless it already finished.
func (sc *Scan) Cancel() {
	sc.cancel()
}

// Abandon cancels the scan for a consumer that has stopped reading events.
// Pending sends, the terminal event included, are dropped so the scan
// goroutine can exit.
func (sc *Scan) Abandon() {
	sc.abandonOnce.Do(func() { close(sc.abandoned) })
	sc.cancel()
}

// Done is closed once the scan goroutine has exited.
func (sc *Scan) Done() <-chan struct{} {
	return sc.done
}

// Wait blocks until the scan goroutine exits or timeout elapses, and
// reports whether it exited.
func (sc *Scan) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-sc.done:
		return true
	case <-timer.C:
		return false
	}
}

func (sc *Scan) run(ctx context.Context) {
	defer close(sc.events)

	logger := sc.s.logger
	checked := make(map[string]bool)
	seen := make(map[string]bool)

	visit := func(dir string) bool {
		if !sc.checkpoint(ctx) {
			return false
		}
		key := cleanAbs(dir)
		if checked[key] {
			return true
		}
		checked[key] = true

		root, ok := Classify(sc.s.fs, dir)
		if !ok {
			return true
		}
		root = cleanAbs(root)
		if seen[root] {
			return true
		}
		seen[root] = true

		sc.mu.Lock()
		sc.found = append(sc.found, root)
		sc.mu.Unlock()

		logger.Info("found game", "root", root)
		return sc.emit(ctx, Event{Kind: EventFound, Message: filepath.Base(root), Path: root})
	}

	for _, root := range sc.roots {
		if !sc.checkpoint(ctx) {
			sc.finish(StateCancelled)
			return
		}
		if !sc.emit(ctx, Event{Kind: EventProgress, Message: fmt.Sprintf("Scanning %s...", root), Path: root}) {
			sc.finish(StateCancelled)
			return
		}

		children, err := sc.subdirs(root)
		if err != nil {
			logger.Warn("skipped search root", "root", root, "err", err)
			if !sc.emit(ctx, Event{Kind: EventWarning, Message: fmt.Sprintf("Skipped %s: %v", root, err), Path: root}) {
				sc.finish(StateCancelled)
				return
			}
			continue
		}

		for _, child := range children {
			if !visit(child) {
				sc.finish(StateCancelled)
				return
			}
		}
		for _, child := range children {
			grandchildren, err := sc.subdirs(child)
			if err != nil {
				logger.Debug("skipped directory", "path", child, "err", err)
				continue
			}
			for _, gc := range grandchildren {
				if !visit(gc) {
					sc.finish(StateCancelled)
					return
				}
			}
		}
	}

	if ctx.Err() != nil {
		sc.finish(StateCancelled)
		return
	}
	sc.finish(StateComplete)
}

// checkpoint blocks while paused and reports whether the scan may go on.
func (sc *Scan) checkpoint(ctx context.Context) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for sc.paused && ctx.Err() == nil {
		sc.cond.Wait()
	}
	return ctx.Err() == nil
}

// emit delivers a non-terminal event, giving up if the scan is cancelled
// while the channel is full.
func (sc *Scan) emit(ctx context.Context, ev Event) bool {
	ev.At = sc.s.clock.Now()
	select {
	case sc.events <- ev:
		return true
	case <-ctx.Done():
		return false
	case <-sc.abandoned:
		return false
	}
}

// finish records the terminal state and delivers the terminal event. The
// send blocks until the event is read or the scan is abandoned.
func (sc *Scan) finish(state State) {
	sc.mu.Lock()
	sc.state = state
	sc.paused = false
	count := len(sc.found)
	sc.mu.Unlock()

	ev := Event{Kind: EventComplete, Message: fmt.Sprintf("Scan complete: %d games found", count), At: sc.s.clock.Now()}
	if state == StateCancelled {
		ev.Kind = EventCancelled
		ev.Message = "Scan cancelled"
	}
	sc.s.logger.Info("scan finished", "state", state.String(), "found", count)
	select {
	case sc.events <- ev:
	case <-sc.abandoned:
		sc.s.logger.Debug("terminal scan event dropped", "state", state.String())
	}
}

// subdirs lists the directories directly under dir, following symlinks.
func (sc *Scan) subdirs(dir string) ([]string, error) {
	entries, err := sc.s.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.IsDir() || (e.Type()&os.ModeSymlink != 0 && fsops.IsDir(sc.s.fs, p)) {
			dirs = append(dirs, p)
		}
	}
	return dirs, nil
}

func cleanAbs(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
