// Package parser folds a flat token stream into an AST using depth as the
// sole nesting signal. The parser never fails: malformed or unrecognized
// tokens are silently skipped, and depth inconsistencies are absorbed by
// the ascend rule rather than rejected.
package parser

import (
	"strings"

	"github.com/aledsdavies/pugc/pkgs/ast"
	"github.com/aledsdavies/pugc/pkgs/token"
)

// Parse folds toks into a tree and returns the root node. toks must be
// terminated by a single EOF token, as produced by lexer.Tokenize.
func Parse(toks []token.Token) *ast.Node {
	p := &parser{toks: toks}
	return p.run()
}

type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// run drives the main ascend-attach-descend loop described in spec §4.2.
func (p *parser) run() *ast.Node {
	root := ast.NewRoot()
	currentParent := root

	for p.peek().Kind != token.EOF {
		node := p.buildNode()
		if node == nil {
			continue
		}

		// Ascend while the node's depth does not exceed the current
		// parent's depth, unless we are already at the root.
		for node.Depth <= currentParent.Depth && currentParent.Parent != nil {
			currentParent = currentParent.Parent
		}

		currentParent.AppendChild(node)

		if p.peek().Depth > node.Depth && !node.IsVoid {
			currentParent = node
		}
	}

	return root
}

// buildNode constructs exactly one AST node from the token(s) starting at
// the cursor, consuming however many tokens that construction needs
// (absorption, for TAG nodes). Returns nil if the primary token at the
// cursor does not start a node.
func (p *parser) buildNode() *ast.Node {
	t := p.next()

	switch t.Kind {
	case token.TAG:
		return p.buildTag(t)

	case token.CLASS, token.ID:
		// Anonymous element (".foo", "#bar"): an untagged node that absorbs
		// this modifier and any that follow it at the same depth.
		p.pos--
		return p.buildTag(token.Token{Kind: token.TAG, Line: t.Line, Column: t.Column, Depth: t.Depth})

	case token.TEXT, token.PIPE, token.DOT:
		n := &ast.Node{
			Kind:  token.TEXT,
			Text:  strings.TrimSpace(t.Value),
			Depth: t.Depth, Line: t.Line, Column: t.Column,
		}
		if t.Kind == token.PIPE || t.Kind == token.DOT {
			n.IsBlock = true
		}
		return n

	case token.CODE, token.COMMENT, token.BLOCK_COMMENT, token.INTERPOLATION:
		return &ast.Node{
			Kind:  t.Kind,
			Text:  strings.TrimSpace(t.Value),
			Depth: t.Depth, Line: t.Line, Column: t.Column,
		}

	case token.DOCTYPE, token.INCLUDE, token.EXTENDS, token.MIXIN, token.CALL:
		return &ast.Node{
			Kind:  t.Kind,
			Tag:   keywordTag(t.Kind),
			Text:  t.Value,
			Depth: t.Depth, Line: t.Line, Column: t.Column,
		}

	default:
		return nil
	}
}

func keywordTag(k token.Kind) string {
	switch k {
	case token.DOCTYPE:
		return "doctype"
	case token.INCLUDE:
		return "include"
	case token.EXTENDS:
		return "extends"
	case token.MIXIN:
		return "mixin"
	case token.CALL:
		return "call"
	}
	return ""
}

// buildTag constructs an element node from a TAG token and absorbs any
// immediately following same-depth modifier tokens (#id, .class, (attrs),
// text/interpolation), stopping at the first non-modifier token.
func (p *parser) buildTag(t token.Token) *ast.Node {
	n := &ast.Node{
		Kind: token.TAG, Tag: t.Value,
		Depth: t.Depth, Line: t.Line, Column: t.Column,
	}

	for p.peek().Depth == t.Depth {
		next := p.peek()
		switch next.Kind {
		case token.ID:
			n.ID = next.Value
			p.next()
		case token.CLASS:
			n.Classes = append(n.Classes, next.Value)
			p.next()
		case token.ATTRIBUTE:
			n.Attrs = append(n.Attrs, parseAttributes(next.Value)...)
			p.next()
		case token.TEXT, token.INTERPOLATION:
			p.next()
			piece := next.Value
			if next.Kind == token.INTERPOLATION {
				piece = "#{" + next.Value + "}"
			}
			// Absorbed TEXT/INTERPOLATION pieces are joined onto Text
			// separated by a single space, per §4.2.
			if n.Text != "" {
				n.Text += " "
			}
			n.Text += piece
			n.IsInline = true
		default:
			goto done
		}
	}
done:

	if isVoidTag(n.Tag) {
		n.IsVoid = true
	}
	return n
}

// voidTags mirrors the renderer's void-element table; the parser needs it
// too because the main loop never descends into a node with IsVoid set, so
// a void element gets no children appended (deeper lines after it attach to
// an ancestor instead). Callers that inspect IsVoid before rendering also
// rely on it being set here.
var voidTags = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "param": {}, "source": {},
	"track": {}, "wbr": {},
}

func isVoidTag(tag string) bool {
	_, ok := voidTags[tag]
	return ok
}

// parseAttributes splits a raw "(...)" payload on top-level commas and
// parses each "name=value" (or bare name) piece. Malformed segments
// (empty name) are silently skipped.
func parseAttributes(raw string) []token.Attribute {
	var attrs []token.Attribute
	for _, piece := range splitTopLevel(raw, ',') {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		name, value, hasEq := cutFirst(piece, '=')
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if !hasEq {
			attrs = append(attrs, token.Attribute{Name: name, Kind: token.AttrString})
			continue
		}
		value = unquote(value)
		attrs = append(attrs, token.Attribute{Name: name, Value: value, Kind: token.AttrString})
	}
	return attrs
}

// splitTopLevel splits s on sep, ignoring sep occurrences inside nested
// parentheses or quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// cutFirst splits s on the first occurrence of sep.
func cutFirst(s string, sep byte) (before, after string, found bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// unquote strips matching surrounding single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
