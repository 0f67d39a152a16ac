package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

var savesCmd = &cobra.Command{
	Use:   "saves <game-root>",
	Short: "List the save files of a game",
	Long: `List the .rpgsave files in a game's www/save folder.

The folder is created when it does not exist yet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.newSession(false)
		defer s.Close()

		saves, err := s.ListSaves(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if saves == nil {
				saves = []string{}
			}
			return outputJSON(out, saves)
		}

		if len(saves) == 0 {
			PrintEmptyState(out, "No save files found")
			return nil
		}
		rows := make([][]string, 0, len(saves))
		for _, p := range saves {
			rows = append(rows, []string{filepath.Base(p), p})
		}
		PrintTable(out, []string{"FILE", "PATH"}, rows)
		return nil
	},
}
