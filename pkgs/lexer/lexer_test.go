package lexer

import (
	"testing"

	"github.com/aledsdavies/pugc/pkgs/token"
	"github.com/google/go-cmp/cmp"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want []token.Kind) {
	t.Helper()
	got := kinds(New(src, Options{}).Tokenize())
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize(%q)[%d] = %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestTokenizeTagClassID(t *testing.T) {
	assertKinds(t, "div.container#main",
		[]token.Kind{token.TAG, token.CLASS, token.ID, token.EOF})
}

func TestTokenizeAnonymousDiv(t *testing.T) {
	assertKinds(t, ".container",
		[]token.Kind{token.CLASS, token.EOF})
	assertKinds(t, "#main",
		[]token.Kind{token.ID, token.EOF})
}

func TestTokenizeAttributes(t *testing.T) {
	assertKinds(t, `a(href="/" title="home")`,
		[]token.Kind{token.TAG, token.ATTRIBUTE, token.EOF})
}

func TestTokenizeInlineText(t *testing.T) {
	toks := New("p Hello world", Options{}).Tokenize()
	if toks[0].Kind != token.TAG || toks[0].Value != "p" {
		t.Fatalf("expected TAG(p), got %v", toks[0])
	}
	if toks[1].Kind != token.TEXT || toks[1].Value != "Hello world" {
		t.Fatalf("expected TEXT(\"Hello world\"), got %v", toks[1])
	}
}

func TestTokenizeInterpolation(t *testing.T) {
	toks := New("p Hello #{name}!", Options{}).Tokenize()
	var gotKinds []token.Kind
	for _, tok := range toks {
		gotKinds = append(gotKinds, tok.Kind)
	}
	want := []token.Kind{token.TAG, token.TEXT, token.INTERPOLATION, token.TEXT, token.EOF}
	if len(gotKinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", gotKinds, want)
	}
	for i := range want {
		if gotKinds[i] != want[i] {
			t.Errorf("kind[%d] = %s, want %s", i, gotKinds[i], want[i])
		}
	}
	if toks[2].Value != "name" {
		t.Errorf("interpolation value = %q, want %q", toks[2].Value, "name")
	}
}

func TestTokenizeDoctype(t *testing.T) {
	toks := New("doctype html", Options{}).Tokenize()
	if toks[0].Kind != token.DOCTYPE || toks[0].Value != "html" {
		t.Fatalf("got %v, want DOCTYPE(html)", toks[0])
	}
}

func TestTokenizeKeywordPrefixMatchByDefault(t *testing.T) {
	// "doctypeish" is not a real keyword line, but the non-strict lexer
	// still treats any "doctype" prefix as the keyword (see DESIGN.md OQ-1).
	toks := New("doctypeish", Options{}).Tokenize()
	if toks[0].Kind != token.DOCTYPE {
		t.Fatalf("got %v, want DOCTYPE under default (non-strict) options", toks[0])
	}
}

func TestTokenizeKeywordStrictBoundary(t *testing.T) {
	toks := New("doctypeish", Options{StrictKeywords: true}).Tokenize()
	if toks[0].Kind != token.TAG {
		t.Fatalf("got %v, want TAG under StrictKeywords", toks[0])
	}
}

func TestTokenizeComment(t *testing.T) {
	toks := New("// a comment", Options{}).Tokenize()
	if toks[0].Kind != token.COMMENT || toks[0].Value != " a comment" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	toks := New("//- hidden", Options{}).Tokenize()
	if toks[0].Kind != token.BLOCK_COMMENT {
		t.Fatalf("got %v, want BLOCK_COMMENT", toks[0])
	}
}

func TestTokenizePipeText(t *testing.T) {
	toks := New("| plain text line", Options{}).Tokenize()
	if toks[0].Kind != token.PIPE || toks[0].Value != "plain text line" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestTokenizeCodeLine(t *testing.T) {
	toks := New("- const x = 1", Options{}).Tokenize()
	if toks[0].Kind != token.CODE || toks[0].Value != "const x = 1" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestTokenizeMixinCallAndDefinition(t *testing.T) {
	toks := New("mixin button(text)", Options{}).Tokenize()
	if toks[0].Kind != token.MIXIN {
		t.Fatalf("got %v, want MIXIN", toks[0])
	}

	toks = New("+button('Save')", Options{}).Tokenize()
	if toks[0].Kind != token.CALL || toks[0].Value != "button('Save')" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestScanIndentTabsAndSpaces(t *testing.T) {
	tests := []struct {
		line      string
		wantDepth int
	}{
		{"div", 0},
		{"\tdiv", 1},
		{"\t\tdiv", 2},
		{"  div", 1},
		{"    div", 2},
		{"\t  div", 2}, // 1 tab + 2 spaces/2 = 1 + 1
		{"   div", 1},  // 3 spaces / 2 = 1 (integer division)
	}
	for _, tt := range tests {
		_, depth := scanIndent(tt.line)
		if depth != tt.wantDepth {
			t.Errorf("scanIndent(%q) depth = %d, want %d", tt.line, depth, tt.wantDepth)
		}
	}
}

func TestTokenizeDepthPropagation(t *testing.T) {
	src := "ul\n\tli one\n\tli two"
	toks := New(src, Options{}).Tokenize()
	var depths []int
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			depths = append(depths, tok.Depth)
		}
	}
	want := []int{0, 1, 1, 1, 1}
	if len(depths) != len(want) {
		t.Fatalf("depths = %v, want %v", depths, want)
	}
	for i := range want {
		if depths[i] != want[i] {
			t.Errorf("depth[%d] = %d, want %d", i, depths[i], want[i])
		}
	}
}

func TestTokenizeBlankLinesProduceNothing(t *testing.T) {
	toks := New("div\n\n\np", Options{}).Tokenize()
	if len(toks) != 3 { // TAG(div), TAG(p), EOF
		t.Fatalf("got %d tokens, want 3: %v", len(toks), toks)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	toks := New("", Options{}).Tokenize()
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("got %v, want a single EOF", toks)
	}
}

func TestScanBalancedParensNested(t *testing.T) {
	payload, end := scanBalancedParens(`(data-x="f(1)" other="y")rest`, 0)
	if payload != `data-x="f(1)" other="y"` {
		t.Errorf("payload = %q", payload)
	}
	if end != len(`(data-x="f(1)" other="y")`) {
		t.Errorf("end = %d, want %d", end, len(`(data-x="f(1)" other="y")`))
	}
}

func TestTokenizeFullTokenStructuralDiff(t *testing.T) {
	got := New("p.hello#greet Hi there", Options{}).Tokenize()
	want := []token.Token{
		{Kind: token.TAG, Value: "p", Line: 1, Column: 0, Depth: 0},
		{Kind: token.CLASS, Value: "hello", Line: 1, Column: 1, Depth: 0},
		{Kind: token.ID, Value: "greet", Line: 1, Column: 7, Depth: 0},
		{Kind: token.TEXT, Value: "Hi there", Line: 1, Column: 14, Depth: 0},
		{Kind: token.EOF, Line: 2, Column: 0, Depth: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestScanBalancedParensUnclosed(t *testing.T) {
	payload, end := scanBalancedParens(`(href="/"`, 0)
	if payload != `href="/"` {
		t.Errorf("payload = %q", payload)
	}
	if end != len(`(href="/"`) {
		t.Errorf("end = %d", end)
	}
}
