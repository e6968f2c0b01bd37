// Command pugc compiles a template file written in the source dialect to
// HTML. All compilation logic lives in pkgs/compiler; this file only
// handles argument parsing, I/O, and process exit codes, per spec §1.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/pugc/pkgs/compiler"
	"github.com/aledsdavies/pugc/pkgs/lexer"
	"github.com/aledsdavies/pugc/pkgs/parser"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	var (
		useTabs        bool
		tabSize        int
		minify         bool
		strictKeywords bool
		debug          bool
		noColor        bool
		dumpTokens     bool
		dumpAST        bool
	)

	rootCmd := &cobra.Command{
		Use:   "pugc [file]",
		Short: "Compile a template file to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			if debug {
				log.SetLevel(logrus.DebugLevel)
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			reader, closeFn, err := getInputReader(path)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			src, err := io.ReadAll(reader)
			if err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			if dumpTokens || dumpAST {
				dumpPipeline(string(src), strictKeywords, dumpTokens, dumpAST)
			}

			result, err := compiler.Compile(string(src), compiler.Options{
				UseTabs:        useTabs,
				TabSize:        tabSize,
				Minify:         minify,
				StrictKeywords: strictKeywords,
			})
			if err != nil {
				return fmt.Errorf("compile failed: %w", err)
			}

			log.WithFields(logrus.Fields{
				"tokens": result.Stats.Tokens,
				"nodes":  result.Stats.Nodes,
				"bytes":  len(result.HTML),
			}).Debug("compiled template")

			fmt.Print(result.HTML)
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&useTabs, "use-tabs", false, "indent pretty output with tabs instead of spaces")
	rootCmd.Flags().IntVar(&tabSize, "tab-size", 2, "spaces per indent level (ignored with --use-tabs)")
	rootCmd.Flags().BoolVar(&minify, "minify", false, "emit minified HTML with no indentation or comments")
	rootCmd.Flags().BoolVar(&strictKeywords, "strict-keywords", false, "require a word boundary after doctype/include/extends/mixin")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "print compilation stats to stderr")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "print the lexed token stream to stderr before compiling")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed tree to stderr before compiling")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// dumpPipeline prints intermediate lexer/parser state for debugging,
// colorized the way the teacher's plan formatter colorized tree dumps.
func dumpPipeline(src string, strictKeywords, dumpTokens, dumpAST bool) {
	toks := lexer.New(src, lexer.Options{StrictKeywords: strictKeywords}).Tokenize()

	if dumpTokens {
		fmt.Fprintln(os.Stderr, color.CyanString("-- tokens --"))
		for _, tok := range toks {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString(tok.Position()), tok.String())
		}
	}

	if dumpAST {
		root := parser.Parse(toks)
		fmt.Fprintln(os.Stderr, color.CyanString("-- ast --"))
		fmt.Fprintln(os.Stderr, root.String())
	}
}

// getInputReader handles the two modes of input: an explicit file path, or
// stdin when no file argument was given.
func getInputReader(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file %s: %w", path, err)
	}
	return f, f.Close, nil
}
