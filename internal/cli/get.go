package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/display"
	"github.com/danieljhkim/rpgsave/internal/document"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Print the value at a path",
	Long: `Print the value at a path in a save file.

Strings are printed as-is, other scalars as JSON, and objects and arrays as
indented JSON.`,
	Args: cobra.ExactArgs(2),
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

		v, err := s.Get(p)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), valueJSON{
				Path:  p.Pointer(),
				Kind:  v.Kind().String(),
				Value: json.RawMessage(document.Serialize(v)),
			})
		}

		out := display.ValueText(v)
		if v.IsContainer() {
			out = document.Indent(v, "  ")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

type valueJSON struct {
	Path  string          `json:"path"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}
