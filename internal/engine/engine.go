// Package engine provides the editing session behind the CLI and the TUI.
//
// A Session owns the open document, its undo history, the game scan cache
// and the file watcher. Every editor-facing operation goes through it.
//
// Key components:
//   - Open/Save: load and persist a save file through the persist gateway
//   - EditLeaf/SetValue/Undo/Redo: path-addressed edits with history
//   - Game scans: background scanner runs with a session-wide result cache
//   - Listener: notifications for scan progress and document changes
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/danieljhkim/rpgsave/internal/clock"
	"github.com/danieljhkim/rpgsave/internal/codec"
	"github.com/danieljhkim/rpgsave/internal/config"
	"github.com/danieljhkim/rpgsave/internal/document"
	"github.com/danieljhkim/rpgsave/internal/fsops"
	"github.com/danieljhkim/rpgsave/internal/hash"
	"github.com/danieljhkim/rpgsave/internal/history"
	"github.com/danieljhkim/rpgsave/internal/persist"
	"github.com/danieljhkim/rpgsave/internal/scanner"
	"github.com/danieljhkim/rpgsave/internal/watcher"
)

// closeTimeout bounds how long Close waits for a running scan.
const closeTimeout = 2 * time.Second

// Session is one editing session.
type Session struct {
	id      string
	fs      fsops.FS
	gateway *persist.Gateway
	scanner *scanner.Scanner
	clock   clock.Clock
	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger

	busy atomic.Bool

	// mu guards the document state below. Operations hold busy for their
	// whole duration and mu only while touching state.
	mu          sync.Mutex
	store       *document.Store
	history     *history.Log
	file        string
	fingerprint string
	savedTop    *document.Command
	beautify    bool
	watcher     *watcher.Watcher

	listenerMu sync.RWMutex
	listener   Listener

	scanMu   sync.Mutex
	scan     *scanner.Scan
	pumpDone chan struct{}
	cache    []string
	cached   bool
}

// New creates a Session.
func New(
	fs fsops.FS,
	c codec.Codec,
	hasher hash.Hasher,
	clk clock.Clock,
	cfg *config.Config,
	paths *config.Paths,
	logger *slog.Logger,
) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	id := uuid.NewString()
	logger = logger.With("session", id)

	return &Session{
		id:       id,
		fs:       fs,
		gateway:  persist.NewGateway(fs, c, hasher, clk, logger),
		scanner:  scanner.New(fs, clk, logger),
		clock:    clk,
		cfg:      cfg,
		paths:    paths,
		logger:   logger,
		store:    document.NewStore(),
		history:  history.NewLog(cfg.History.Max),
		beautify: cfg.Editor.Beautify,
		listener: nopListener{},
	}
}

// ID returns the session identifier used in logs and diagnostics.
func (s *Session) ID() string {
	return s.id
}

// SetListener replaces the session listener. nil disables notifications.
func (s *Session) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	s.listenerMu.Lock()
	s.listener = l
	s.listenerMu.Unlock()
}

func (s *Session) notify(kind EventKind, path, message string) {
	s.listenerMu.RLock()
	l := s.listener
	s.listenerMu.RUnlock()
	l.HandleEvent(Event{Kind: kind, Path: path, Message: message, At: s.clock.Now()})
}

// acquire marks the session busy for op, failing fast if it already is.
func (s *Session) acquire(op string) error {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Debug("rejected concurrent operation", "op", op)
		return &OperationError{Op: op, Err: ErrBusy}
	}
	return nil
}

func (s *Session) release() {
	s.busy.Store(false)
}

// Close cancels any running scan, waiting up to two seconds for it to
// stop, and stops the file watcher.
func (s *Session) Close() error {
	s.scanMu.Lock()
	sc, pumpDone := s.scan, s.pumpDone
	s.scanMu.Unlock()

	if sc != nil {
		sc.Cancel()
		if sc.Wait(closeTimeout) {
			if pumpDone != nil {
				<-pumpDone
			}
		} else {
			// the listener is not taking events; stop feeding it
			s.logger.Warn("scan did not stop before close timeout", "timeout", closeTimeout)
			sc.Abandon()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopWatchLocked()
}
