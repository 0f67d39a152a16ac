package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/rpgsave/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_FlagOverridesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Fallback: &buf, FallbackLevel: slog.LevelDebug}, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer logger.Close()

	logger.Debug("loaded save", "path", "file1.rpgsave")
	if !strings.Contains(buf.String(), "loaded save") || !strings.Contains(buf.String(), "path=file1.rpgsave") {
		t.Errorf("debug record missing: %q", buf.String())
	}
}

func TestNew_FallbackLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Fallback: &buf, FallbackLevel: slog.LevelWarn}, config.Default())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buf.String(), "quiet") {
		t.Errorf("info record written to fallback: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("warn record missing: %q", buf.String())
	}
}

func TestNew_FileFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rpgsave.log")
	cfg := config.Default()
	cfg.Log.File = path

	logger, err := New(Options{}, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("first")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	logger, err = New(Options{}, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("second")
	_ = logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log file should be appended to, got %q", data)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}, nil); err == nil {
		t.Error("New with invalid level should fail")
	}
}
