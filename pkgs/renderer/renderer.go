// Package renderer walks an AST and serializes it to HTML, honoring
// void-element rules, HTML escaping, inline vs. block text layout, comment
// visibility rules, and configurable indentation/minification.
package renderer

import (
	"errors"
	"strings"

	"github.com/aledsdavies/pugc/pkgs/ast"
	"github.com/aledsdavies/pugc/pkgs/token"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Options configures layout and minification.
type Options struct {
	UseTabs bool // one tab per indent level instead of TabSize spaces
	TabSize int  // spaces per indent level when UseTabs is false
	Minify  bool // suppress indentation/newlines/comments; run an HTML minifier pass
}

// voidTags is the fixed set of HTML void elements, always self-closed with
// no children regardless of AST content.
var voidTags = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "param": {}, "source": {},
	"track": {}, "wbr": {},
}

func isVoid(tag string) bool {
	_, ok := voidTags[tag]
	return ok
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escape(s string) string {
	return escaper.Replace(s)
}

// Render serializes root to HTML under opts.
func Render(root *ast.Node, opts Options) (string, error) {
	if root == nil {
		return "", errors.New("nil root node")
	}
	r := &renderState{opts: opts}
	r.renderChildren(root)

	out := r.b.String()
	if !opts.Minify {
		return out, nil
	}

	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	minified, err := m.String("text/html", out)
	if err != nil {
		// The minifier is a best-effort compaction pass over output this
		// package already produced validly; fall back to the unminified
		// tree-walk result rather than surfacing a library error for
		// harmless input (e.g. an empty document).
		return out, nil
	}
	return minified, nil
}

type renderState struct {
	b    strings.Builder
	opts Options
}

func (r *renderState) indent(depth int) {
	if r.opts.Minify || depth <= 0 {
		return
	}
	if r.opts.UseTabs {
		r.b.WriteString(strings.Repeat("\t", depth))
		return
	}
	r.b.WriteString(strings.Repeat(" ", r.opts.TabSize*depth))
}

func (r *renderState) newline() {
	if !r.opts.Minify {
		r.b.WriteByte('\n')
	}
}

func (r *renderState) renderChildren(n *ast.Node) {
	for _, c := range n.Children {
		r.renderNode(c)
	}
}

func (r *renderState) renderNode(n *ast.Node) {
	switch n.Kind {
	case token.DOCTYPE:
		r.indent(n.Depth)
		doctype := n.Text
		if doctype == "" {
			doctype = "html"
		}
		r.b.WriteString("<!DOCTYPE ")
		r.b.WriteString(doctype)
		r.b.WriteString(">")
		r.newline()

	case token.TEXT:
		r.indent(n.Depth)
		r.b.WriteString(escape(n.Text))
		r.newline()

	case token.INTERPOLATION:
		r.indent(n.Depth)
		r.b.WriteString("#{ ")
		r.b.WriteString(n.Text)
		r.b.WriteString(" }")
		r.newline()

	case token.COMMENT:
		if r.opts.Minify {
			return
		}
		r.indent(n.Depth)
		r.b.WriteString("<!-- ")
		r.b.WriteString(escape(n.Text))
		r.b.WriteString(" -->")
		r.newline()

	case token.BLOCK_COMMENT:
		// never rendered

	case token.CODE, token.INCLUDE, token.EXTENDS, token.MIXIN, token.CALL:
		if r.opts.Minify {
			return
		}
		r.indent(n.Depth)
		r.b.WriteString("<!-- ")
		r.b.WriteString(strings.ToLower(n.Kind.String()))
		if n.Text != "" {
			r.b.WriteString(": ")
			r.b.WriteString(escape(n.Text))
		}
		r.b.WriteString(" -->")
		r.newline()

	case token.TAG:
		r.renderTag(n)

	default:
		// unknown kinds are skipped
	}
}

func (r *renderState) renderTag(n *ast.Node) {
	tag := n.EffectiveTag()
	if tag == "" {
		tag = "div"
	}

	r.indent(n.Depth)
	r.b.WriteByte('<')
	r.b.WriteString(tag)

	if n.ID != "" {
		r.b.WriteString(` id="`)
		r.b.WriteString(escape(n.ID))
		r.b.WriteByte('"')
	}
	if len(n.Classes) > 0 {
		r.b.WriteString(` class="`)
		r.b.WriteString(escape(strings.Join(n.Classes, " ")))
		r.b.WriteByte('"')
	}
	for _, a := range n.Attrs {
		r.b.WriteByte(' ')
		r.b.WriteString(a.Name)
		if a.Kind != token.AttrBoolean {
			r.b.WriteString(`="`)
			r.b.WriteString(a.Value) // deliberately unescaped, see DESIGN.md OQ-2
			r.b.WriteByte('"')
		}
	}

	void := n.IsVoid || isVoid(tag)
	if void {
		r.b.WriteString(" />")
		r.newline()
		return
	}
	r.b.WriteByte('>')

	hasText := n.Text != ""
	switch {
	case hasText && n.IsInline:
		r.b.WriteString(escape(n.Text))
	case hasText && n.IsBlock:
		if !r.opts.Minify {
			r.newline()
			r.indent(n.Depth + 1)
			r.b.WriteString(escape(n.Text))
			r.newline()
			r.indent(n.Depth)
		} else {
			r.b.WriteString(escape(n.Text))
		}
	}

	inline := n.IsInline
	if len(n.Children) > 0 && !inline {
		r.newline()
		r.renderChildren(n)
		r.indent(n.Depth)
	} else if len(n.Children) > 0 {
		r.renderChildren(n)
	}

	r.b.WriteString("</")
	r.b.WriteString(tag)
	r.b.WriteByte('>')
	r.newline()
}
