package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	out, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "rpgsave") {
		t.Error("expected help to contain 'rpgsave'")
	}
	for _, group := range []string{"Save Files:", "Game Detection:", "CLI & Tooling:"} {
		if !strings.Contains(out, group) {
			t.Errorf("expected help to list group %q", group)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { rootCmd.Version = "dev" })

	for _, args := range [][]string{{"--version"}, {"version"}} {
		out, _, err := run(t, args...)
		if err != nil {
			t.Fatalf("%v: Execute() error = %v", args, err)
		}
		if strings.TrimSpace(out) != "1.2.3" {
			t.Errorf("%v printed %q, want 1.2.3", args, out)
		}
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	if _, _, err := run(t, "invalid-command"); err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestSetVersion(t *testing.T) {
	t.Cleanup(func() { rootCmd.Version = "dev" })

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"normal version", "1.2.3", "1.2.3"},
		{"empty version keeps previous", "", "1.2.3"},
		{"dev version", "dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version)
			if rootCmd.Version != tt.want {
				t.Errorf("SetVersion(%q) left %q, want %q", tt.version, rootCmd.Version, tt.want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := []string{
		"tree", "get", "set", "decode", "encode", "edit", "beautify",
		"scan", "saves", "config", "bundle", "version", "completion",
	}

	for _, name := range subcommands {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			if err != nil {
				t.Fatalf("Find(%q) error = %v", name, err)
			}
			if cmd.Name() != name {
				t.Errorf("Find(%q) = %q", name, cmd.Name())
			}
			if cmd.GroupID == "" {
				t.Errorf("%s has no command group", name)
			}
		})
	}
}

func TestRootCommand_OpenAlias(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"open"})
	if err != nil {
		t.Fatalf("Find(open) error = %v", err)
	}
	if cmd != treeCmd {
		t.Errorf("open resolves to %q, want tree", cmd.Name())
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error = %v", shell, err)
			}
			if !strings.Contains(out, "rpgsave") {
				t.Errorf("completion %s output does not mention rpgsave", shell)
			}
		})
	}
}

func TestCommandHelp(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	customHelpFunc(setCmd, nil)
	out := buf.String()
	if !strings.Contains(out, "--literal") || !strings.Contains(out, "--dry-run") {
		t.Errorf("set help is missing its flags:\n%s", out)
	}
	if !strings.Contains(out, "--json") {
		t.Error("set help is missing inherited flags")
	}
}
