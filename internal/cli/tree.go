package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgsave/internal/display"
)

var (
	treeDepth    int
	treeBeautify bool
)

// valueWidth caps how much of a long string value the tree shows.
const valueWidth = 60

var treeCmd = &cobra.Command{
	Use:     "tree <file> [path]",
	Aliases: []string{"open"},
	Short:   "Show a save file as a tree",
	Long: `Decode a save file and print its contents as a tree of keys and values.

A path selects a subtree. Paths are slash-separated (party/_actors/1) with
~1 for a literal "/" and ~0 for "~", or a JSON array of steps.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		beautify := a.cfg.Editor.Beautify
		if cmd.Flags().Changed("beautify") {
			beautify = treeBeautify
		}
		s.SetBeautify(beautify)

		root := s.Tree()
		if len(args) == 2 {
			p, err := parsePathArg(args[1])
			if err != nil {
				return err
			}
			if _, err := s.Get(p); err != nil {
				return err
			}
			root = display.Find(root, p)
		}

		if jsonOutput {
			// the root node itself counts as one level in JSON
			levels := treeDepth
			if levels > 0 {
				levels++
			}
			return outputJSON(cmd.OutOrStdout(), toNodeJSON(root, levels))
		}
		printTree(cmd.OutOrStdout(), root, treeDepth)
		return nil
	},
}

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 2, "Levels to show (0 shows everything)")
	treeCmd.Flags().BoolVarP(&treeBeautify, "beautify", "b", false, "Show display names instead of raw keys")
}

type nodeJSON struct {
	Key      string      `json:"key"`
	Label    string      `json:"label"`
	Path     string      `json:"path"`
	Kind     string      `json:"kind"`
	Value    string      `json:"value"`
	Children []*nodeJSON `json:"children,omitempty"`
}

func toNodeJSON(n *display.Node, depth int) *nodeJSON {
	out := &nodeJSON{
		Key:   n.Key,
		Label: n.Label,
		Path:  n.Path.Pointer(),
		Kind:  n.Kind.String(),
		Value: n.Value,
	}
	if depth == 1 {
		return out
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toNodeJSON(c, depth-1))
	}
	return out
}

// printTree prints the children of root, depth levels deep.
func printTree(w io.Writer, root *display.Node, depth int) {
	if len(root.Children) == 0 {
		_, _ = valueColor.Fprintln(w, truncate(root.Value, valueWidth))
		return
	}

	var visit func(n *display.Node, level int)
	visit = func(n *display.Node, level int) {
		indent := strings.Repeat("  ", level)
		for _, c := range n.Children {
			if c.Editable {
				_, _ = labelColor.Fprintf(w, "%s%s: ", indent, c.Label)
				_, _ = valueColor.Fprintln(w, truncate(c.Value, valueWidth))
				continue
			}
			_, _ = headerColor.Fprintf(w, "%s%s ", indent, c.Label)
			_, _ = dimColor.Fprintf(w, "%s (%s)\n", c.Value, PrintCount(len(c.Children), "item", "items"))
			if depth == 0 || level+1 < depth {
				visit(c, level+1)
			}
		}
	}
	visit(root, 0)
}
