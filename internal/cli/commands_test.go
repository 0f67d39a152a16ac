package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/rpgsave/internal/clock"
	"github.com/danieljhkim/rpgsave/internal/codec"
	"github.com/danieljhkim/rpgsave/internal/config"
	"github.com/danieljhkim/rpgsave/internal/document"
	"github.com/danieljhkim/rpgsave/internal/engine"
	"github.com/danieljhkim/rpgsave/internal/fsops"
	"github.com/danieljhkim/rpgsave/internal/hash"
	"github.com/danieljhkim/rpgsave/internal/logging"
)

const sampleSave = `{"party":{"gold":10,"_actors":[null,{"name":"ハロルド","level":5}]},"_gameTitle":"Quest"}`

func setupSave(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file1.rpgsave")
	writeSave(t, path, sampleSave)
	return path
}

func TestTreeCommand(t *testing.T) {
	file := setupSave(t)

	t.Run("text", func(t *testing.T) {
		out, _, err := run(t, "tree", file)
		if err != nil {
			t.Fatalf("tree error = %v", err)
		}
		for _, want := range []string{"party [Object] (2 items)", "  gold: 10", "_gameTitle: Quest"} {
			if !strings.Contains(out, want) {
				t.Errorf("output is missing %q:\n%s", want, out)
			}
		}
		// depth 2 stops before the actor fields
		if strings.Contains(out, "ハロルド") {
			t.Errorf("output went deeper than 2 levels:\n%s", out)
		}
	})

	t.Run("subtree with full depth", func(t *testing.T) {
		out, _, err := run(t, "open", file, "party/_actors", "--depth", "0")
		if err != nil {
			t.Fatalf("tree error = %v", err)
		}
		if !strings.Contains(out, "name: ハロルド") || strings.Contains(out, "gold") {
			t.Errorf("unexpected subtree:\n%s", out)
		}
	})

	t.Run("beautify", func(t *testing.T) {
		out, _, err := run(t, "tree", file, "-b")
		if err != nil {
			t.Fatalf("tree error = %v", err)
		}
		if !strings.Contains(out, "Game Title: Quest") {
			t.Errorf("beautified output:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "--json", "tree", file, "--depth", "1")
		if err != nil {
			t.Fatalf("tree error = %v", err)
		}
		var root nodeJSON
		if err := json.Unmarshal([]byte(out), &root); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if len(root.Children) != 2 || root.Children[0].Key != "party" {
			t.Fatalf("children = %+v", root.Children)
		}
		if root.Children[0].Path != "/party" || root.Children[0].Children != nil {
			t.Errorf("party node = %+v", root.Children[0])
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, _, err := run(t, "tree", file, "party/silver")
		if !errors.Is(err, document.ErrPath) {
			t.Errorf("error = %v, want a path error", err)
		}
	})

	t.Run("not a save file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.rpgsave")
		if err := os.WriteFile(bad, []byte("!!!"), 0644); err != nil {
			t.Fatal(err)
		}
		_, _, err := run(t, "tree", bad)
		if !errors.Is(err, codec.ErrDecode) {
			t.Errorf("error = %v, want decode error", err)
		}
	})
}

func TestGetCommand(t *testing.T) {
	file := setupSave(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"number", []string{"get", file, "party/gold"}, "10\n"},
		{"string is raw", []string{"get", file, "party/_actors/1/name"}, "ハロルド\n"},
		{"null", []string{"get", file, "party/_actors/0"}, "null\n"},
		{"container is indented", []string{"get", file, "party/_actors/1"}, "{\n  \"name\": \"ハロルド\",\n  \"level\": 5\n}\n"},
		{"json", []string{"get", "--json", file, "party/gold"}, "{\n  \"path\": \"/party/gold\",\n  \"kind\": \"number\",\n  \"value\": 10\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("get error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}

	if _, _, err := run(t, "get", file, "party/_actors/9"); !errors.Is(err, document.ErrPath) {
		t.Errorf("out of range error = %v", err)
	}
}

func TestSetCommand(t *testing.T) {
	t.Run("edits and backs up", func(t *testing.T) {
		file := setupSave(t)
		out, errOut, err := run(t, "set", file, "party/gold", "25")
		if err != nil {
			t.Fatalf("set error = %v", err)
		}
		if !strings.Contains(out, "/party/gold: 10 → 25") {
			t.Errorf("output = %q", out)
		}
		if !strings.Contains(errOut, "will be stored as number") {
			t.Errorf("missing coercion warning, stderr = %q", errOut)
		}
		want := strings.Replace(sampleSave, `"gold":10`, `"gold":25`, 1)
		if got := readSave(t, file); got != want {
			t.Errorf("saved %s\nwant %s", got, want)
		}
		if got := readSave(t, file+".bak"); got != sampleSave {
			t.Errorf("backup holds %s", got)
		}
	})

	t.Run("dry run leaves the file", func(t *testing.T) {
		file := setupSave(t)
		out, _, err := run(t, "set", "--dry-run", file, "party/gold", "25")
		if err != nil {
			t.Fatalf("set error = %v", err)
		}
		if !strings.Contains(out, "dry run") {
			t.Errorf("output = %q", out)
		}
		if got := readSave(t, file); got != sampleSave {
			t.Errorf("file changed: %s", got)
		}
		if _, err := os.Stat(file + ".bak"); !os.IsNotExist(err) {
			t.Error("dry run wrote a backup")
		}
	})

	t.Run("unchanged value is not saved", func(t *testing.T) {
		file := setupSave(t)
		out, _, err := run(t, "set", file, "party/gold", "10.0")
		if err != nil {
			t.Fatalf("set error = %v", err)
		}
		if !strings.Contains(out, "nothing to save") {
			t.Errorf("output = %q", out)
		}
		if _, err := os.Stat(file + ".bak"); !os.IsNotExist(err) {
			t.Error("no-op edit wrote a backup")
		}
	})

	t.Run("literal inserts a key", func(t *testing.T) {
		file := setupSave(t)
		out, _, err := run(t, "--json", "set", "--literal", file, "party/items", `[1,2]`)
		if err != nil {
			t.Fatalf("set error = %v", err)
		}
		var res setJSON
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if compact := strings.Join(strings.Fields(string(res.New)), ""); !res.Inserted || compact != "[1,2]" || res.Backup == "" {
			t.Errorf("result = %+v", res)
		}
		if got := readSave(t, file); !strings.Contains(got, `"_actors":[null,{"name":"ハロルド","level":5}],"items":[1,2]}`) {
			t.Errorf("saved %s", got)
		}
	})

	t.Run("literal replaces the whole document", func(t *testing.T) {
		file := setupSave(t)
		out, _, err := run(t, "set", "--literal", "--dry-run", file, "", `{"v":1}`)
		if err != nil {
			t.Fatalf("set error = %v", err)
		}
		if !strings.HasPrefix(out, "/: ") || !strings.Contains(out, "(dry run, not saved)") {
			t.Errorf("output = %q", out)
		}
		if got := readSave(t, file); got != sampleSave {
			t.Errorf("dry run changed the file: %s", got)
		}
	})

	t.Run("container cannot take a scalar edit", func(t *testing.T) {
		file := setupSave(t)
		if _, _, err := run(t, "set", file, "party", "1"); err == nil {
			t.Fatal("expected an error")
		}
		if got := readSave(t, file); got != sampleSave {
			t.Errorf("file changed: %s", got)
		}
	})

	t.Run("missing key without literal", func(t *testing.T) {
		file := setupSave(t)
		if _, _, err := run(t, "set", file, "party/silver", "1"); !errors.Is(err, document.ErrPath) {
			t.Errorf("error = %v, want a path error", err)
		}
	})
}

func TestDecodeEncodeCommands(t *testing.T) {
	file := setupSave(t)
	dir := t.TempDir()

	out, _, err := run(t, "decode", file)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if out != sampleSave+"\n" {
		t.Errorf("decode output = %q", out)
	}

	pretty := filepath.Join(dir, "save.json")
	if _, _, err := run(t, "decode", "--pretty", "-o", pretty, file); err != nil {
		t.Fatalf("decode -o error = %v", err)
	}
	data, err := os.ReadFile(pretty)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"party\": {\n") {
		t.Errorf("pretty output:\n%s", data)
	}

	target := filepath.Join(dir, "file2.rpgsave")
	if _, _, err := run(t, "encode", pretty, "-o", target); err != nil {
		t.Fatalf("encode error = %v", err)
	}
	if got := readSave(t, target); got != sampleSave {
		t.Errorf("round trip = %s", got)
	}
	if _, err := os.Stat(target + ".bak"); !os.IsNotExist(err) {
		t.Error("encode to a new file wrote a backup")
	}

	// overwriting keeps a backup
	if _, _, err := runWithInput(t, `{"gold":1}`, "encode", "-", "-o", target); err != nil {
		t.Fatalf("encode from stdin error = %v", err)
	}
	if got := readSave(t, target); got != `{"gold":1}` {
		t.Errorf("overwritten save = %s", got)
	}
	if got := readSave(t, target+".bak"); got != sampleSave {
		t.Errorf("backup = %s", got)
	}

	// without -o the encoded text is printed and decodes back
	out, _, err = runWithInput(t, `{"a":"é"}`, "encode", "-")
	if err != nil {
		t.Fatalf("encode to stdout error = %v", err)
	}
	out, _, err = runWithInput(t, out, "decode", "-")
	if err != nil {
		t.Fatalf("decode from stdin error = %v", err)
	}
	if out != "{\"a\":\"é\"}\n" {
		t.Errorf("stdin round trip = %q", out)
	}

	if _, _, err := runWithInput(t, `{"a":`, "encode", "-"); !errors.Is(err, document.ErrParse) {
		t.Errorf("bad JSON error = %v", err)
	}
}

func makeGame(t *testing.T, root string, saves ...string) {
	t.Helper()
	for _, f := range []string{"www/index.html", "www/js/rpg_core.js", "www/js/rpg_managers.js", "Game.exe"} {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	for _, s := range saves {
		writeSave(t, filepath.Join(root, "www", "save", s), `{}`)
	}
}

func TestSavesCommand(t *testing.T) {
	game := filepath.Join(t.TempDir(), "Quest")
	makeGame(t, game, "file2.rpgsave", "file1.rpgsave", "config.rpgsave")
	if err := os.WriteFile(filepath.Join(game, "www", "save", "notes.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "--json", "saves", game)
	if err != nil {
		t.Fatalf("saves error = %v", err)
	}
	var saves []string
	if err := json.Unmarshal([]byte(out), &saves); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	var names []string
	for _, s := range saves {
		names = append(names, filepath.Base(s))
	}
	if strings.Join(names, ",") != "config.rpgsave,file1.rpgsave,file2.rpgsave" {
		t.Errorf("saves = %v", names)
	}

	empty := filepath.Join(t.TempDir(), "Empty")
	makeGame(t, empty)
	out, _, err = run(t, "saves", empty)
	if err != nil {
		t.Fatalf("saves error = %v", err)
	}
	if !strings.Contains(out, "No save files found") {
		t.Errorf("output = %q", out)
	}
}

func TestScanCommand(t *testing.T) {
	base := t.TempDir()
	makeGame(t, filepath.Join(base, "Alpha"), "file1.rpgsave")
	makeGame(t, filepath.Join(base, "Series", "Beta"))
	if err := os.MkdirAll(filepath.Join(base, "NotAGame"), 0755); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "--json", "scan", base)
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}
	var res scanJSON
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if !res.Complete || len(res.Games) != 2 {
		t.Fatalf("result = %+v", res)
	}
	counts := map[string]int{}
	for _, g := range res.Games {
		counts[g.Name] = g.Saves
	}
	if counts["Alpha"] != 1 || counts["Beta"] != 0 {
		t.Errorf("save counts = %v", counts)
	}
	if _, err := os.Stat(filepath.Join(base, "Series", "Beta", "www", "save")); !os.IsNotExist(err) {
		t.Errorf("scan created a save folder for Beta (stat err = %v)", err)
	}

	out, _, err = run(t, "scan", base)
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if !strings.Contains(out, "2 games found") {
		t.Errorf("text output:\n%s", out)
	}
}

func TestScanCommand_LeavesLooseGameUntouched(t *testing.T) {
	base := t.TempDir()
	game := filepath.Join(base, "Loose")
	for _, f := range []string{"index.html", "js/rpg_core.js", "js/rpg_managers.js", "js/plugins.js"} {
		p := filepath.Join(game, f)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err := run(t, "scan", base)
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if !strings.Contains(out, "1 game found") {
		t.Errorf("text output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(game, "www")); !os.IsNotExist(err) {
		t.Errorf("scan wrote into the game folder (stat err = %v)", err)
	}
}

func TestScanCommand_MissingRoot(t *testing.T) {
	out, errOut, err := run(t, "scan", filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if !strings.Contains(errOut, "Skipped") {
		t.Errorf("stderr = %q, want a skipped-root warning", errOut)
	}
	if !strings.Contains(out, "No RPG Maker MV games found") {
		t.Errorf("stdout = %q", out)
	}
}

func TestBeautifyCommand(t *testing.T) {
	out, _, err := run(t, "beautify", "_gameTitle", "xpBonus", "_1hpRegen")
	if err != nil {
		t.Fatalf("beautify error = %v", err)
	}
	if out != "Game Title\nXP Bonus\nHP Regen\n" {
		t.Errorf("output = %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "rpgsave", "config.yaml")

	if _, _, err := run(t, "--config", cfgFile, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(cfgFile); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, _, err := run(t, "--config", cfgFile, "config", "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
	if _, _, err := run(t, "--config", cfgFile, "config", "init", "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}

	if err := os.WriteFile(cfgFile, []byte("editor:\n  beautify: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "--config", cfgFile, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "beautify: true") || !strings.Contains(out, "level: info") {
		t.Errorf("config show:\n%s", out)
	}

	// the tree command picks up editor.beautify
	file := setupSave(t)
	out, _, err = run(t, "--config", cfgFile, "tree", file)
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}
	if !strings.Contains(out, "Game Title") {
		t.Errorf("tree ignored editor.beautify:\n%s", out)
	}

	if err := os.WriteFile(cfgFile, []byte("log:\n  level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "--config", cfgFile, "config", "show"); err == nil {
		t.Error("invalid config should fail to load")
	}
}

func TestRawFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	if err := os.WriteFile(path, []byte(sampleSave), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "--raw", "get", path, "party/gold")
	if err != nil {
		t.Fatalf("get --raw error = %v", err)
	}
	if out != "10\n" {
		t.Errorf("get --raw = %q, want %q", out, "10\n")
	}

	if _, _, err := run(t, "--raw", "set", path, "party/gold", "11"); err != nil {
		t.Fatalf("set --raw error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"gold":11`) {
		t.Errorf("file is not plain JSON after set: %s", data)
	}

	// without --raw the same file is not a valid save
	if _, _, err := run(t, "get", path, "party/gold"); !errors.Is(err, codec.ErrDecode) {
		t.Errorf("get without --raw error = %v, want ErrDecode", err)
	}
}

func TestBundleCommand(t *testing.T) {
	file := setupSave(t)
	s := engine.New(
		fsops.NewRealFS(),
		codec.NewLZString(),
		hash.NewSHA256Hasher(),
		clock.NewFakeClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)),
		config.Default(),
		config.PathsFromRoot(t.TempDir()),
		logging.Discard(),
	)
	t.Cleanup(func() { _ = s.Close() })
	if _, err := s.OpenDocument(file); err != nil {
		t.Fatal(err)
	}
	bundle, err := s.ExportDiagnostics()
	if err != nil {
		t.Fatalf("ExportDiagnostics failed: %v", err)
	}

	out, _, err := run(t, "bundle", bundle)
	if err != nil {
		t.Fatalf("bundle error = %v", err)
	}
	for _, want := range []string{"Session: " + s.ID(), "Created: 2024-06-01T08:00:00Z", "File: " + file} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ハロルド") {
		t.Errorf("document shown without --document:\n%s", out)
	}

	out, _, err = run(t, "--json", "bundle", bundle, "--document")
	if err != nil {
		t.Fatalf("bundle --json error = %v", err)
	}
	var b engine.Bundle
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if b.Session != s.ID() || !strings.Contains(string(b.Document), "ハロルド") {
		t.Errorf("bundle = %+v", b)
	}

	if _, _, err := run(t, "bundle", file); err == nil {
		t.Error("a save file is not a bundle")
	}
}
