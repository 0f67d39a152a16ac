// Package display builds the presentation tree for a document.
//
// The tree is rebuilt from scratch after every edit. Nodes have no stable
// identity across builds; consumers keep state (selection, expansion) keyed
// by Node.Path instead.
package display

import (
	"strconv"

	"github.com/danieljhkim/rpgsave/internal/document"
)

const (
	// ObjectTag is the value column text of an object node.
	ObjectTag = "[Object]"
	// ArrayTag is the value column text of an array node.
	ArrayTag = "[Array]"
)

// Node is one row of the display tree.
type Node struct {
	// Key is the raw object key or array index of this node.
	Key string
	// Label is the name shown to the user; Key, or its beautified form.
	Label string
	Path  document.Path
	Kind  document.Kind
	// Value is the scalar text, or a container tag.
	Value string
	// Editable is true for scalar leaves only.
	Editable bool
	Children []*Node
}

// Options control how labels are rendered.
type Options struct {
	// Beautify applies Beautify to object keys. Array indices are shown
	// as-is.
	Beautify bool
}

// Build returns a root node whose children are the top-level members of v.
// A scalar document yields a root with no children; its value is on the
// root itself.
func Build(v document.Value, opts Options) *Node {
	root := &Node{Path: document.Path{}, Kind: v.Kind()}
	fill(root, v, opts)
	return root
}

func fill(n *Node, v document.Value, opts Options) {
	n.Kind = v.Kind()
	n.Value = ValueText(v)
	n.Editable = !v.IsContainer()

	switch v.Kind() {
	case document.Object:
		for _, key := range v.Keys() {
			child, _ := v.Field(key)
			label := key
			if opts.Beautify {
				label = Beautify(key)
			}
			c := &Node{Key: key, Label: label, Path: n.Path.Append(key)}
			fill(c, child, opts)
			n.Children = append(n.Children, c)
		}
	case document.Array:
		for i := 0; i < v.Len(); i++ {
			key := strconv.Itoa(i)
			c := &Node{Key: key, Label: key, Path: n.Path.AppendIndex(i)}
			fill(c, v.Index(i), opts)
			n.Children = append(n.Children, c)
		}
	}
}

// ValueText renders a value for the value column: container tags for
// objects and arrays, the raw text for strings, and JSON for other
// scalars.
func ValueText(v document.Value) string {
	switch v.Kind() {
	case document.Object:
		return ObjectTag
	case document.Array:
		return ArrayTag
	case document.String:
		return v.Str()
	default:
		return v.String()
	}
}

// Row is a visible node in a flattened tree.
type Row struct {
	Node     *Node
	Depth    int
	Expanded bool
}

// Flatten lists the nodes visible under root in display order. A container
// is expanded when its path's pointer form is in expanded. The root itself
// is not listed.
func Flatten(root *Node, expanded map[string]bool) []Row {
	var rows []Row
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		for _, c := range n.Children {
			open := expanded[c.Path.Pointer()]
			rows = append(rows, Row{Node: c, Depth: depth, Expanded: open})
			if open {
				visit(c, depth+1)
			}
		}
	}
	visit(root, 0)
	return rows
}

// Find returns the node at p, or nil.
func Find(root *Node, p document.Path) *Node {
	n := root
	for _, step := range p {
		var next *Node
		for _, c := range n.Children {
			if c.Key == step {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}
