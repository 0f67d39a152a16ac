package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/rpgsave/internal/fsops"
	"github.com/danieljhkim/rpgsave/internal/scanner"
)

// SaveExt is the file extension of RPG Maker MV save files.
const SaveExt = ".rpgsave"

// StartGameScan starts a background scan of roots, replacing the cached
// results. Progress is reported to the listener; the scan's events are
// also returned for callers that want to follow it directly. Nil roots
// means the default search roots.
func (s *Session) StartGameScan(ctx context.Context, roots []string) error {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	if s.scan != nil {
		select {
		case <-s.pumpDone:
		default:
			return ErrScanRunning
		}
	}

	if roots == nil {
		roots = s.DefaultScanRoots()
	}
	s.logger.Info("starting game scan", "roots", len(roots))

	s.cache = nil
	s.cached = false
	sc := s.scanner.Start(ctx, roots)
	done := make(chan struct{})
	s.scan = sc
	s.pumpDone = done

	go s.pump(sc, done)
	return nil
}

// pump forwards scan events to the listener and the cache.
func (s *Session) pump(sc *scanner.Scan, done chan struct{}) {
	defer close(done)

	for ev := range sc.Events() {
		var kind EventKind
		switch ev.Kind {
		case scanner.EventProgress:
			kind = EventScanProgress
		case scanner.EventFound:
			kind = EventGameFound
			s.scanMu.Lock()
			s.cache = appendUnique(s.cache, ev.Path)
			s.scanMu.Unlock()
		case scanner.EventWarning:
			kind = EventScanWarning
		case scanner.EventComplete:
			kind = EventScanComplete
			s.scanMu.Lock()
			s.cached = true
			s.scanMu.Unlock()
		case scanner.EventCancelled:
			kind = EventScanCancelled
		}
		s.notify(kind, ev.Path, ev.Message)
	}
}

func appendUnique(list []string, p string) []string {
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	return append(list, p)
}

// CancelGameScan stops the running scan.
func (s *Session) CancelGameScan() error {
	sc, err := s.runningScan()
	if err != nil {
		return err
	}
	sc.Cancel()
	return nil
}

// PauseGameScan pauses the running scan before its next directory.
func (s *Session) PauseGameScan() error {
	sc, err := s.runningScan()
	if err != nil {
		return err
	}
	sc.Pause()
	return nil
}

// ResumeGameScan resumes a paused scan.
func (s *Session) ResumeGameScan() error {
	sc, err := s.runningScan()
	if err != nil {
		return err
	}
	sc.Resume()
	return nil
}

// ScanState returns the state of the most recent scan, or StateIdle when
// none was started.
func (s *Session) ScanState() scanner.State {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	if s.scan == nil {
		return scanner.StateIdle
	}
	return s.scan.State()
}

// WaitGameScan waits for the running scan and its notifications to finish.
// It returns false if ctx ends first.
func (s *Session) WaitGameScan(ctx context.Context) bool {
	s.scanMu.Lock()
	done := s.pumpDone
	s.scanMu.Unlock()
	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) runningScan() (*scanner.Scan, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	if s.scan == nil {
		return nil, ErrNoScan
	}
	select {
	case <-s.pumpDone:
		return nil, ErrNoScan
	default:
		return s.scan, nil
	}
}

// CachedGames returns the game roots found by the latest scan, and whether
// that scan ran to completion. The slice is a copy.
func (s *Session) CachedGames() ([]string, bool) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return append([]string(nil), s.cache...), s.cached
}

// DefaultScanRoots returns the search roots used when none are given.
func (s *Session) DefaultScanRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		s.logger.Warn("failed to resolve home directory", "err", err)
		home = ""
	}
	return scanner.DefaultRoots(s.fs, home, s.cfg.Scan.ExtraRoots)
}

// SaveDir returns the save folder of the game at gameRoot, creating it when
// missing.
func SaveDir(fs fsops.FS, gameRoot string) (string, error) {
	dir := filepath.Join(gameRoot, "www", "save")
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	return dir, nil
}

// ListSaves returns the save files of the game at gameRoot, sorted by name.
// The save folder is created when missing, ready for the game to use.
func (s *Session) ListSaves(gameRoot string) ([]string, error) {
	dir, err := SaveDir(s.fs, gameRoot)
	if err != nil {
		return nil, err
	}
	return s.readSaves(dir)
}

// FindSaves is ListSaves without side effects: a game with no save folder
// has no saves.
func (s *Session) FindSaves(gameRoot string) ([]string, error) {
	dir := filepath.Join(gameRoot, "www", "save")
	ok, err := s.fs.Exists(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check save directory: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return s.readSaves(dir)
}

func (s *Session) readSaves(dir string) ([]string, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	var saves []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), SaveExt) {
			continue
		}
		saves = append(saves, filepath.Join(dir, e.Name()))
	}
	sort.Strings(saves)
	return saves, nil
}
