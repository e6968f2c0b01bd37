// Package compiler wires the lexer, parser, and renderer into the single
// public entry point for compiling source text to HTML.
package compiler

import (
	"fmt"
	"unicode/utf8"

	"github.com/aledsdavies/pugc/pkgs/ast"
	"github.com/aledsdavies/pugc/pkgs/lexer"
	"github.com/aledsdavies/pugc/pkgs/parser"
	"github.com/aledsdavies/pugc/pkgs/renderer"
)

// Options configures the whole pipeline: lexer keyword strictness and
// renderer layout/minification.
type Options struct {
	UseTabs        bool
	TabSize        int
	Minify         bool
	StrictKeywords bool
}

// Result carries diagnostics alongside the compiled HTML. Only some callers
// use Stats (cmd/pugc's --debug flag does); computing it costs nothing
// beyond counting, so Compile always fills it in.
type Result struct {
	HTML  string
	Stats Stats
}

// Stats is the statistics summary the out-of-scope CLI driver may print.
// The core pipeline never inspects these values itself.
type Stats struct {
	Tokens int
	Nodes  int
}

// CompileError wraps a pipeline failure. The only failure mode today is
// invalid UTF-8 input; everything else the pipeline tolerates per spec.
type CompileError struct {
	Stage string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// DefaultOptions mirrors the spec's worked examples (2-space pretty print).
func DefaultOptions() Options {
	return Options{TabSize: 2}
}

// Compile runs the lexer, parser, and renderer in sequence and returns the
// serialized HTML in Result.HTML. Empty input returns a Result with empty
// HTML and a nil error rather than an error.
func Compile(src string, opts Options) (Result, error) {
	if src == "" {
		return Result{}, nil
	}
	if !utf8.ValidString(src) {
		return Result{}, &CompileError{Stage: "lexer", Err: fmt.Errorf("input is not valid UTF-8")}
	}

	l := lexer.New(src, lexer.Options{StrictKeywords: opts.StrictKeywords})
	toks := l.Tokenize()

	root := parser.Parse(toks)

	html, err := renderer.Render(root, renderer.Options{
		UseTabs: opts.UseTabs,
		TabSize: opts.TabSize,
		Minify:  opts.Minify,
	})
	if err != nil {
		return Result{}, &CompileError{Stage: "renderer", Err: err}
	}

	return Result{
		HTML: html,
		Stats: Stats{
			Tokens: len(toks),
			Nodes:  countNodes(root),
		},
	}, nil
}

func countNodes(root *ast.Node) int {
	count := 0
	ast.Walk(root, func(*ast.Node) bool {
		count++
		return true
	})
	return count
}
