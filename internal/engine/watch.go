package engine

import (
	"github.com/danieljhkim/rpgsave/internal/watcher"
)

// restartWatchLocked replaces the file watcher with one for the current
// file. It does nothing when watching is disabled in config.
func (s *Session) restartWatchLocked() error {
	if err := s.stopWatchLocked(); err != nil {
		s.logger.Debug("failed to stop previous watcher", "err", err)
	}
	if !s.cfg.Watch.Enabled || s.file == "" {
		return nil
	}

	w, err := watcher.New(s.file, s.cfg.Watch.Debounce, s.logger, s.onFileEvent)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		_ = w.Close()
		return err
	}
	s.watcher = w
	return nil
}

func (s *Session) stopWatchLocked() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

// onFileEvent runs on the watcher goroutine. Writes made by our own saves
// leave the fingerprint unchanged and are ignored.
func (s *Session) onFileEvent(ev watcher.Event) {
	s.mu.Lock()
	file, expected := s.file, s.fingerprint
	s.mu.Unlock()

	if ev.Path != file {
		return
	}
	if s.busy.Load() {
		// A save may be between its write and its fingerprint update.
		return
	}
	if s.externallyModified(file, expected) {
		s.logger.Info("save file changed on disk", "path", file, "event", string(ev.Type))
		s.notify(EventExternalChange, file, "modified by another program")
	}
}

// ExternallyModified reports whether the open file's content on disk no
// longer matches what was loaded or last saved. A missing file counts as
// modified.
func (s *Session) ExternallyModified() bool {
	s.mu.Lock()
	file, expected := s.file, s.fingerprint
	s.mu.Unlock()
	if file == "" {
		return false
	}
	return s.externallyModified(file, expected)
}

func (s *Session) externallyModified(file, expected string) bool {
	current, err := s.gateway.Fingerprint(file)
	if err != nil {
		return true
	}
	return current != expected
}
