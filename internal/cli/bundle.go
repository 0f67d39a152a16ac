package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/engine"
)

var bundleDocument bool

var bundleCmd = &cobra.Command{
	Use:   "bundle <file" + engine.BundleExt + ">",
	Short: "Show a diagnostics bundle",
	Long: `Show a diagnostics bundle written by the editor.

Bundles are written to the diagnostics folder when an edit fails with
diagnostics.verbose on, or when exported from the editor with d. They record
the failed operation and the whole document at that moment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := engine.ReadBundle(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if !bundleDocument {
				b.Document = nil
			}
			return outputJSON(out, b)
		}

		PrintSection(out, "Diagnostics")
		PrintLabelValue(out, "Session", b.Session)
		PrintLabelValue(out, "Created", b.CreatedAt.Format(time.RFC3339))
		if b.File != "" {
			PrintLabelValue(out, "File", b.File)
		}
		if b.Op != "" {
			PrintLabelValue(out, "Operation", b.Op)
		}
		if b.Path != "" {
			PrintLabelValue(out, "Path", b.Path)
		}
		PrintLabelValue(out, "Undo", strconv.Itoa(b.UndoDepth))
		PrintLabelValue(out, "Redo", strconv.Itoa(b.RedoDepth))
		if b.Error != "" {
			fmt.Fprintln(out)
			PrintError(out, b.Error)
		}
		if bundleDocument && len(b.Document) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, string(b.Document))
		}
		return nil
	},
}

func init() {
	bundleCmd.Flags().BoolVar(&bundleDocument, "document", false, "Include the saved document")
}
