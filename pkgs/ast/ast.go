// Package ast defines the single polymorphic tree-node type the parser
// builds and the renderer walks. Unlike a typical CST with one Go type per
// grammar construct, this dialect's node shape is uniform: every node
// (element, text, comment, doctype, ...) is the same struct with a handful
// of fields that only some kinds use, mirroring the source dialect's own
// single-struct AST node.
package ast

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/pugc/pkgs/token"
)

// RootDepth is the sentinel depth carried by the root node.
const RootDepth = -1

// RootTag is the sentinel tag name of the root node.
const RootTag = "root"

// Node is a single tree node. Children appear in parse order; Parent is nil
// only for the root.
type Node struct {
	Kind  token.Kind
	Tag   string // element name, or a keyword sentinel ("doctype", "include", ...), or RootTag
	Text  string
	ID    string
	Classes []string
	Attrs []token.Attribute

	Depth  int // RootDepth for the root, >= 0 otherwise
	Line   int
	Column int

	Children []*Node
	Parent   *Node

	IsVoid   bool // forces self-closing regardless of tag, and forbids children
	IsInline bool // text lives on the same line as the opening tag
	IsBlock  bool // text introduced by '|' or '.', laid out on its own line(s) when pretty-printing
}

// NewRoot creates an empty root node.
func NewRoot() *Node {
	return &Node{Kind: token.TAG, Tag: RootTag, Depth: RootDepth}
}

// AppendChild attaches child as n's last child and sets child.Parent = n.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// EffectiveTag returns n.Tag, defaulting to "div" for an anonymous node
// (one with classes or an id but no explicit tag name) per spec §3.
func (n *Node) EffectiveTag() string {
	if n.Tag != "" {
		return n.Tag
	}
	if n.ID != "" || len(n.Classes) > 0 {
		return "div"
	}
	return n.Tag
}

// String renders a compact debug form, not HTML — useful for test failure
// messages and -dump-ast output.
func (n *Node) String() string {
	if n.Tag == RootTag {
		var parts []string
		for _, c := range n.Children {
			parts = append(parts, c.String())
		}
		return strings.Join(parts, "\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s", n.Kind)
	if n.Tag != "" {
		fmt.Fprintf(&b, "(%s)", n.Tag)
	}
	if n.ID != "" {
		fmt.Fprintf(&b, "#%s", n.ID)
	}
	for _, c := range n.Classes {
		fmt.Fprintf(&b, ".%s", c)
	}
	if n.Text != "" {
		fmt.Fprintf(&b, " %q", n.Text)
	}
	return b.String()
}

// Walk visits n and every descendant in pre-order, depth-first, calling fn
// on each. fn returning false stops descent into that node's children but
// does not stop the overall walk.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// invariant panics with msg if cond is false. Used only from tests as a
// cheap assertion helper; production code never calls it because the spec
// is explicit that malformed structure is tolerated, not fatal.
func invariant(cond bool, msg string) {
	if !cond {
		panic("ast: invariant violated: " + msg)
	}
}
