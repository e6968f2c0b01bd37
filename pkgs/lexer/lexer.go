// Package lexer turns source text in the indentation-sensitive template
// dialect into a flat, line-oriented token stream. Each line is tokenized
// independently; leading whitespace is converted into a depth value carried
// on every token emitted from that line.
package lexer

import (
	"strings"
	"unicode"

	"github.com/aledsdavies/pugc/pkgs/token"
)

// ASCII classification tables, precomputed once. Mirrors the fast-path /
// slow-path split used throughout this codebase: the common ASCII case
// never touches the unicode package.
var (
	isIdentStart [128]bool // letters and '_'
	isIdentPart  [128]bool // isIdentStart plus digits and '-'
	isDigit      [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		letter := ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isIdentStart[i] = letter || ch == '_'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentPart[i] = isIdentStart[i] || isDigit[i] || ch == '-'
	}
}

// Options tunes lexer behavior beyond the baseline dialect rules.
type Options struct {
	// StrictKeywords requires a whitespace or end-of-line boundary after
	// doctype/include/extends/mixin before treating the line as that
	// keyword. Default false preserves the historical prefix-match
	// behavior (see DESIGN.md OQ-1).
	StrictKeywords bool
}

// Lexer scans one input buffer into a token slice. It holds the input split
// into lines; Tokenize scans them one at a time, each line independently.
type Lexer struct {
	lines []string
	opts  Options
}

// New creates a Lexer over src. Lines are split on '\n' only; a trailing
// '\r' is preserved verbatim in whatever token absorbs it (see DESIGN.md
// OQ-3).
func New(src string, opts Options) *Lexer {
	var lines []string
	if src != "" {
		lines = strings.Split(src, "\n")
	}
	return &Lexer{lines: lines, opts: opts}
}

// Tokenize scans the entire buffer and returns the full token slice,
// terminated by a single EOF token at depth 0.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for i, line := range l.lines {
		toks = append(toks, l.tokenizeLine(line, i+1)...)
	}
	toks = append(toks, token.Token{Kind: token.EOF, Line: len(l.lines) + 1, Column: 0, Depth: 0})
	return toks
}

// tokenizeLine scans one line. Blank or whitespace-only lines produce
// nothing.
func (l *Lexer) tokenizeLine(line string, lineNo int) []token.Token {
	rest, depth := scanIndent(line)
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	col := len(line) - len(rest)

	if kind, payload, ok := l.dispatchKeyword(rest); ok {
		return []token.Token{{Kind: kind, Value: payload, Line: lineNo, Column: col, Depth: depth}}
	}

	switch {
	case strings.HasPrefix(rest, "+"):
		return []token.Token{{Kind: token.CALL, Value: strings.TrimSpace(rest[1:]), Line: lineNo, Column: col, Depth: depth}}
	case strings.HasPrefix(rest, "//-"):
		return []token.Token{{Kind: token.BLOCK_COMMENT, Value: rest[3:], Line: lineNo, Column: col, Depth: depth}}
	case strings.HasPrefix(rest, "//"):
		return []token.Token{{Kind: token.COMMENT, Value: rest[2:], Line: lineNo, Column: col, Depth: depth}}
	case strings.HasPrefix(rest, "|"):
		return []token.Token{{Kind: token.PIPE, Value: strings.TrimSpace(rest[1:]), Line: lineNo, Column: col, Depth: depth}}
	case strings.HasPrefix(rest, "-"):
		return []token.Token{{Kind: token.CODE, Value: strings.TrimSpace(rest[1:]), Line: lineNo, Column: col, Depth: depth}}
	}

	return l.scanElementLine(rest, lineNo, col, depth)
}

// scanIndent computes the line's depth and returns the remainder after
// leading whitespace. A tab contributes one level; a run of spaces
// contributes len(run)/2 levels (integer division). Mixed runs sum their
// contributions in the order encountered.
func scanIndent(line string) (rest string, depth int) {
	i := 0
	spaces := 0
	for i < len(line) {
		switch line[i] {
		case '\t':
			depth += spaces / 2
			spaces = 0
			depth++
			i++
		case ' ':
			spaces++
			i++
		default:
			depth += spaces / 2
			return line[i:], depth
		}
	}
	depth += spaces / 2
	return "", depth
}

var keywordDispatch = []struct {
	prefix string
	kind   token.Kind
}{
	{"doctype", token.DOCTYPE},
	{"include", token.INCLUDE},
	{"extends", token.EXTENDS},
	{"mixin", token.MIXIN},
}

// dispatchKeyword checks the doctype/include/extends/mixin line forms.
func (l *Lexer) dispatchKeyword(rest string) (token.Kind, string, bool) {
	for _, kw := range keywordDispatch {
		if !strings.HasPrefix(rest, kw.prefix) {
			continue
		}
		remainder := rest[len(kw.prefix):]
		if l.opts.StrictKeywords && remainder != "" && !unicode.IsSpace(rune(remainder[0])) {
			continue
		}
		return kw.kind, strings.TrimSpace(remainder), true
	}
	return 0, "", false
}

// scanElementLine tokenizes the tag/#id/.class/(attrs)/text run that makes
// up a plain element line.
func (l *Lexer) scanElementLine(rest string, lineNo, colBase, depth int) []token.Token {
	var toks []token.Token
	i := 0
	n := len(rest)

	emit := func(kind token.Kind, value string, col int) {
		toks = append(toks, token.Token{Kind: kind, Value: value, Line: lineNo, Column: colBase + col, Depth: depth})
	}

	for i < n {
		ch := rest[i]
		switch {
		case ch == '#':
			start := i
			j := i + 1
			for j < n && isIdentByte(rest[j]) {
				j++
			}
			if j == i+1 {
				// lone '#' not followed by an identifier is literal text.
				consumed := scanInlineRun(rest[start:], emit, colBase, start)
				i = start + consumed
				continue
			}
			emit(token.ID, rest[i+1:j], start)
			i = j

		case ch == '.':
			start := i
			j := i + 1
			for j < n && isIdentByte(rest[j]) {
				j++
			}
			if j == i+1 {
				emit(token.DOT, "", start)
				i = j
				continue
			}
			emit(token.CLASS, rest[i+1:j], start)
			i = j

		case ch == '(':
			start := i
			payload, end := scanBalancedParens(rest, i)
			emit(token.ATTRIBUTE, payload, start)
			i = end

		case isIdentStartByte(ch):
			start := i
			j := i
			for j < n && isTagByte(rest[j]) {
				j++
			}
			emit(token.TAG, rest[i:j], start)
			i = j

		case ch == ' ':
			for i < n && rest[i] == ' ' {
				i++
			}
			if i >= n || rest[i] == '#' || rest[i] == '.' {
				continue
			}
			consumed := scanInlineRun(rest[i:], emit, colBase, i)
			i += consumed

		default:
			i++
		}
	}

	return toks
}

func isIdentByte(ch byte) bool {
	return ch < 128 && isIdentPart[ch]
}

func isIdentStartByte(ch byte) bool {
	return ch < 128 && ((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'))
}

func isTagByte(ch byte) bool {
	return ch < 128 && ch != '_' && (isIdentPart[ch] || isDigit[ch])
}

// scanBalancedParens returns the raw content between the outermost
// parentheses starting at rest[start] (which must be '('), preserving
// nested parentheses verbatim, and the index just past the closing ')'.
// If the parens are never closed, it returns everything to end of line.
func scanBalancedParens(rest string, start int) (payload string, end int) {
	depth := 0
	i := start
	n := len(rest)
	contentStart := start + 1
	for i < n {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return rest[contentStart:i], i + 1
			}
		}
		i++
	}
	return rest[contentStart:], n
}

// scanInlineRun consumes inline text starting at s[0], alternating between
// TEXT runs and INTERPOLATION tokens until end of line, emitting each piece
// via emit. baseCol is the column of s[0] within the already-column-adjusted
// rest string; it returns the number of bytes consumed.
func scanInlineRun(s string, emit func(token.Kind, string, int), colBase, baseCol int) int {
	i := 0
	n := len(s)
	for i < n {
		start := i
		for i < n && !(s[i] == '#' && i+1 < n && s[i+1] == '{') {
			i++
		}
		if i > start {
			emit(token.TEXT, s[start:i], baseCol+start)
		}
		if i < n && strings.HasPrefix(s[i:], "#{") {
			contentStart := i + 2
			j := contentStart
			for j < n && s[j] != '}' {
				j++
			}
			emit(token.INTERPOLATION, s[contentStart:j], baseCol+i)
			if j < n {
				j++ // consume closing '}'
			}
			i = j
			continue
		}
		break
	}
	return i
}
