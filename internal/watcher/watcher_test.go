package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/rpgsave/internal/logging"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func setupWatched(t *testing.T) (path string, rec *recorder, w *Watcher) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "file1.rpgsave")
	if err := os.WriteFile(path, []byte("before"), 0644); err != nil {
		t.Fatalf("failed to create save: %v", err)
	}

	rec = &recorder{}
	w, err := New(path, 50*time.Millisecond, logging.Discard(), rec.record)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	// Give the watcher time to start
	time.Sleep(100 * time.Millisecond)
	return path, rec, w
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New("/nonexistent/dir/file1.rpgsave", 50*time.Millisecond, logging.Discard(), func(Event) {})
	if err == nil {
		t.Fatal("New() should fail when the directory does not exist")
	}
}

func TestWatcherReportsModification(t *testing.T) {
	path, rec, _ := setupWatched(t)

	if err := os.WriteFile(path, []byte("after"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	events := rec.snapshot()
	if len(events) == 0 {
		t.Fatal("expected an event for the modified file")
	}
	abs, _ := filepath.Abs(path)
	if events[0].Path != abs {
		t.Errorf("event path = %s, want %s", events[0].Path, abs)
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	path, rec, _ := setupWatched(t)

	if err := os.WriteFile(path+".bak", []byte("backup"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "global.rpgsave"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if events := rec.snapshot(); len(events) != 0 {
		t.Errorf("events for other files: %v", events)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path, rec, _ := setupWatched(t)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	if events := rec.snapshot(); len(events) != 1 {
		t.Errorf("got %d events for one burst, want 1", len(events))
	}
}

func TestWatcherSeesRenameReplace(t *testing.T) {
	path, rec, _ := setupWatched(t)

	tmp := filepath.Join(filepath.Dir(path), ".tmp-save")
	if err := os.WriteFile(tmp, []byte("replaced"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if len(rec.snapshot()) == 0 {
		t.Error("expected an event for a replace-by-rename")
	}
}

func TestWatcherCloseStopsCallbacks(t *testing.T) {
	path, rec, w := setupWatched(t)

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Start(); err == nil {
		t.Error("Start() after Close() should fail")
	}

	_ = os.WriteFile(path, []byte("late"), 0644)
	time.Sleep(200 * time.Millisecond)
	if events := rec.snapshot(); len(events) != 0 {
		t.Errorf("events after Close: %v", events)
	}
}
