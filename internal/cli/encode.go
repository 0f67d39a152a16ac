package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/document"
)

var encodeOutput string

var encodeCmd = &cobra.Command{
	Use:   "encode <json-file|->",
	Short: "Encode JSON into a save file",
	Long: `Encode a JSON document into save-file text.

With --output the result is written as a save file, and an existing file at
that path is first kept as <file>.bak. Without it the text is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := readInput(args[0], cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		v, err := document.Parse(string(data))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if encodeOutput == "" {
			text, err := a.codec.Encode(document.Serialize(v))
			if err != nil {
				return fmt.Errorf("failed to encode: %w", err)
			}
			_, err = fmt.Fprintln(out, text)
			return err
		}

		saved, err := a.gateway().Save(encodeOutput, v)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(out, saveJSON{Path: saved.Path, Backup: saved.Backup, Size: saved.Size})
		}
		PrintSuccess(out, fmt.Sprintf("Wrote %s", saved.Path))
		if saved.Backup != "" {
			PrintLabelValue(out, "Backup", saved.Backup)
		}
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "Save file to write")
}

type saveJSON struct {
	Path   string `json:"path"`
	Backup string `json:"backup,omitempty"`
	Size   int    `json:"size"`
}
