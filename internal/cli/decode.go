package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/document"
)

var (
	decodePretty bool
	decodeOutput string
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file|->",
	Short: "Decode a save file to JSON",
	Long: `Decode a save file and print the JSON it contains.

Use - to read the save text from stdin. With --pretty the JSON is indented;
key order is kept either way.`,
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

		text, err := a.codec.Decode(strings.TrimSpace(string(data)))
		if err != nil {
			return err
		}
		v, err := document.Parse(text)
		if err != nil {
			return err
		}

		out := document.Serialize(v)
		if decodePretty {
			out = document.Indent(v, "  ")
		}

		if decodeOutput == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		}
		if err := os.WriteFile(decodeOutput, []byte(out+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", decodeOutput, err)
		}
		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Decoded to %s", decodeOutput))
		return nil
	},
}

func init() {
	decodeCmd.Flags().BoolVarP(&decodePretty, "pretty", "p", false, "Indent the JSON output")
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "Write to a file instead of stdout")
}
