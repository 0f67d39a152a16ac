package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the interactive editor",
	Long: `Open a save file in the interactive tree editor.

Without a file the editor starts on the game list, searching the default
locations or reusing the last results. Log output is discarded unless
--log-file or log.file is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(io.Discard)
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.newSession(true)
		defer s.Close()

		if len(args) == 1 {
			if _, err := s.OpenDocument(args[0]); err != nil {
				return err
			}
		}

		m := tui.New(s)
		defer m.Close()

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("editor failed: %w", err)
		}
		return nil
	},
}
