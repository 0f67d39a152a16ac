// Package logging builds the process logger from flags and config.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/rpgsave/internal/config"
)

// Options are the command-line overrides. Empty fields fall back to config.
type Options struct {
	Level string
	File  string

	// Fallback receives logs when no file is configured. The CLI passes
	// stderr; the TUI passes io.Discard so output does not tear the screen.
	Fallback io.Writer

	// FallbackLevel is the minimum level written to Fallback.
	FallbackLevel slog.Level
}

// Logger is an slog.Logger plus the file it may own.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ParseLevel maps debug, info, warn and error to slog levels. The empty
// string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// New resolves level (flag → config → info) and destination
// (flag → config → fallback) and returns a text logger.
func New(opts Options, cfg *config.Config) (*Logger, error) {
	levelStr := opts.Level
	if levelStr == "" && cfg != nil {
		levelStr = cfg.Log.Level
	}
	level, err := ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	logPath := opts.File
	if logPath == "" && cfg != nil {
		logPath = cfg.Log.File
	}

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
		return &Logger{Logger: slog.New(handler), closer: f}, nil
	}

	w := opts.Fallback
	if w == nil {
		w = io.Discard
	}
	// The fallback only shows what is at least as severe as both thresholds.
	if opts.FallbackLevel > level {
		level = opts.FallbackLevel
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
