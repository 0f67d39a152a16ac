package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/danieljhkim/rpgsave/internal/clock"
	"github.com/danieljhkim/rpgsave/internal/codec"
	"github.com/danieljhkim/rpgsave/internal/config"
	"github.com/danieljhkim/rpgsave/internal/document"
	"github.com/danieljhkim/rpgsave/internal/engine"
	"github.com/danieljhkim/rpgsave/internal/fsops"
	"github.com/danieljhkim/rpgsave/internal/hash"
	"github.com/danieljhkim/rpgsave/internal/logging"
	"github.com/danieljhkim/rpgsave/internal/persist"
)

// app holds what a command needs: config, logger and real dependencies.
type app struct {
	paths  *config.Paths
	cfg    *config.Config
	logger *logging.Logger
	fs     fsops.FS
	codec  codec.Codec
	hasher hash.Hasher
	clock  clock.Clock
}

// newApp loads config and builds the logger. Logs go to the configured
// file, or to logOut at warn and above.
func newApp(logOut io.Writer) (*app, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	cfg, err := config.Load(configFile(paths))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:         logLevel,
		File:          logFile,
		Fallback:      logOut,
		FallbackLevel: slog.LevelWarn,
	}, cfg)
	if err != nil {
		return nil, err
	}

	var c codec.Codec = codec.NewLZString()
	if rawFormat {
		c = codec.Identity{}
	}

	return &app{
		paths:  paths,
		cfg:    cfg,
		logger: logger,
		fs:     fsops.NewRealFS(),
		codec:  c,
		hasher: hash.NewSHA256Hasher(),
		clock:  &clock.RealClock{},
	}, nil
}

func (a *app) Close() {
	_ = a.logger.Close()
}

// newSession creates an editing session. File watching is only useful to
// the interactive editor.
func (a *app) newSession(watch bool) *engine.Session {
	cfg := *a.cfg
	cfg.Watch.Enabled = watch && cfg.Watch.Enabled
	return engine.New(a.fs, a.codec, a.hasher, a.clock, &cfg, a.paths, a.logger.Logger)
}

func (a *app) gateway() *persist.Gateway {
	return persist.NewGateway(a.fs, a.codec, a.hasher, a.clock, a.logger.Logger)
}

// openSession creates a session and opens file in it.
func (a *app) openSession(file string) (*engine.Session, error) {
	s := a.newSession(false)
	if _, err := s.OpenDocument(file); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// parsePathArg parses a document path given on the command line.
func parsePathArg(arg string) (document.Path, error) {
	p, err := document.ParsePath(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", arg, err)
	}
	return p, nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readInput reads a file, or stdin when name is "-".
func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
