package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/display"
)

var beautifyCmd = &cobra.Command{
	Use:   "beautify <key>...",
	Short: "Show the display name of raw keys",
	Long: `Show how the tree view names raw keys when beautify is on.

Leading digits and underscores are dropped, camelCase is split into words,
and each word is capitalized: _gameTitle becomes "Game Title". The words id,
hp, mp and xp are upper-cased.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			names := make(map[string]string, len(args))
			for _, k := range args {
				names[k] = display.Beautify(k)
			}
			return outputJSON(out, names)
		}
		for _, k := range args {
			fmt.Fprintln(out, display.Beautify(k))
		}
		return nil
	},
}
