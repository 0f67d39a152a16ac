package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/engine"
)

var scanVerbose bool

var scanCmd = &cobra.Command{
	Use:   "scan [root...]",
	Short: "Find installed RPG Maker MV games",
	Long: `Search for RPG Maker MV games and list them with their save counts.

Each root and its subdirectories two levels down are checked. Without roots
the usual install locations are searched: the home Games, Desktop, Documents
and Downloads folders, Steam libraries, scan.extra_roots from the config,
and Program Files and fixed drives on Windows.

Press Ctrl+C to stop early; games found so far are still listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.newSession(false)
		defer s.Close()

		out := cmd.OutOrStdout()
		errOut := cmd.ErrOrStderr()
		if !jsonOutput {
			s.SetListener(engine.ListenerFunc(func(ev engine.Event) {
				switch ev.Kind {
				case engine.EventScanProgress:
					if scanVerbose {
						_, _ = dimColor.Fprintln(errOut, ev.Message)
					}
				case engine.EventGameFound:
					PrintSuccess(out, fmt.Sprintf("Found %s", ev.Path))
				case engine.EventScanWarning:
					PrintWarning(errOut, ev.Message)
				case engine.EventScanCancelled:
					PrintWarning(errOut, ev.Message)
				}
			}))
		}

		var roots []string
		if len(args) > 0 {
			for _, r := range args {
				abs, err := filepath.Abs(r)
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", r, err)
				}
				roots = append(roots, abs)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := s.StartGameScan(ctx, roots); err != nil {
			return err
		}
		// a cancelled scan still delivers its final event, so wait without ctx
		s.WaitGameScan(context.Background())

		games, complete := s.CachedGames()
		results := make([]gameJSON, 0, len(games))
		for _, g := range games {
			saves, err := s.FindSaves(g)
			if err != nil {
				a.logger.Warn("failed to list saves", "game", g, "err", err)
			}
			results = append(results, gameJSON{Root: g, Name: filepath.Base(g), Saves: len(saves)})
		}

		if jsonOutput {
			return outputJSON(out, scanJSON{Complete: complete, Games: results})
		}

		PrintSection(out, "Games")
		if len(results) == 0 {
			PrintEmptyState(out, "No RPG Maker MV games found")
			return nil
		}
		rows := make([][]string, 0, len(results))
		for _, g := range results {
			rows = append(rows, []string{g.Name, fmt.Sprint(g.Saves), g.Root})
		}
		PrintTable(out, []string{"GAME", "SAVES", "ROOT"}, rows)
		fmt.Fprintln(out)
		PrintInfo(out, PrintCount(len(results), "game", "games")+" found")
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Show each directory as it is searched")
}

type gameJSON struct {
	Root  string `json:"root"`
	Name  string `json:"name"`
	Saves int    `json:"saves"`
}

type scanJSON struct {
	Complete bool       `json:"complete"`
	Games    []gameJSON `json:"games"`
}
