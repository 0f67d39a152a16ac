package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/document"
	"github.com/danieljhkim/rpgsave/internal/engine"
)

var (
	setLiteral bool
	setDryRun  bool
)

var setCmd = &cobra.Command{
	Use:   "set <file> <path> <value>",
	Short: "Change the value at a path and save",
	Long: `Change a scalar value in a save file and write it back.

The value is typed from its text: true and false become booleans, null and
none become null, numbers become numbers, and anything else stays a string.
There is no way to force a number-like text to be a string.

With --literal the value is parsed as JSON instead. It may then be an object
or array, and a key missing from an existing object is added.

The previous file is kept as <file>.bak.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePathArg(args[1])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		var res *engine.EditResult
		if setLiteral {
			v, perr := document.Parse(args[2])
			if perr != nil {
				return fmt.Errorf("invalid JSON value: %w", perr)
			}
			res, err = s.SetValue(p, v)
		} else {
			res, err = s.EditLeaf(p, args[2])
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var saved *engine.SaveResult
		if res.Changed && !setDryRun {
			saved, err = s.SaveDocument()
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			r := setJSON{
				Path:     p.Pointer(),
				Changed:  res.Changed,
				Inserted: res.Inserted,
				Old:      json.RawMessage(document.Serialize(res.Old)),
				New:      json.RawMessage(document.Serialize(res.New)),
				Warning:  res.Warning,
				DryRun:   setDryRun,
			}
			if saved != nil {
				r.Backup = saved.Backup
			}
			return outputJSON(out, r)
		}

		if res.Warning != "" {
			PrintWarning(cmd.ErrOrStderr(), res.Warning)
		}
		switch {
		case !res.Changed:
			PrintInfo(out, fmt.Sprintf("%s already is %s; nothing to save", pathLabel(p), res.New))
		case setDryRun:
			PrintInfo(out, fmt.Sprintf("%s: %s → %s (dry run, not saved)", pathLabel(p), oldText(res), res.New))
		default:
			PrintSuccess(out, fmt.Sprintf("%s: %s → %s", pathLabel(p), oldText(res), res.New))
			if saved.Backup != "" {
				PrintLabelValue(out, "Backup", saved.Backup)
			}
		}
		return nil
	},
}

func init() {
	setCmd.Flags().BoolVar(&setLiteral, "literal", false, "Parse the value as JSON")
	setCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Show the change without saving")
}

// pathLabel names p in messages. The root has an empty pointer.
func pathLabel(p document.Path) string {
	if p.IsRoot() {
		return "/"
	}
	return p.Pointer()
}

func oldText(res *engine.EditResult) string {
	if res.Inserted {
		return "(new)"
	}
	return res.Old.String()
}

type setJSON struct {
	Path     string          `json:"path"`
	Changed  bool            `json:"changed"`
	Inserted bool            `json:"inserted,omitempty"`
	Old      json.RawMessage `json:"old"`
	New      json.RawMessage `json:"new"`
	Warning  string          `json:"warning,omitempty"`
	DryRun   bool            `json:"dry_run,omitempty"`
	Backup   string          `json:"backup,omitempty"`
}
