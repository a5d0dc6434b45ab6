// Command naab-repl is the interactive Read-Eval-Print Loop for NAAb.
// It connects stdin to the lex -> parse -> interpret pipeline and keeps a
// single interpreter (and its global environment) alive across lines, so
// `let` bindings persist for the session. Each line becomes the body of a
// `main` block and only its statements are evaluated; function, struct and
// enum declarations are not registered.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/config"
	"github.com/naab-lang/naab/internal/executor"
	"github.com/naab-lang/naab/internal/interpreter"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/parser"
	"github.com/naab-lang/naab/internal/token"
	"github.com/naab-lang/naab/internal/value"
)

const (
	prompt = "naab> "
	logo   = `
NAAb -- polyglot block-assembly language
type .help for session commands
`
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	purple = "\033[35m"
	cyan   = "\033[36m"
	gray   = "\033[37m"
	bold   = "\033[1m"
)

func main() {
	Start(os.Stdin, os.Stdout)
}

// Start runs the loop, reading from in and writing to out. A fresh
// interpreter is built for the session; inline code runs through the
// same dispatcher cmd/naab wires in, minus the sqlite-backed block
// registry (a REPL session has no on-disk block store to resolve
// `use` declarations against).
func Start(in io.Reader, out io.Writer) {
	cfg := config.Load()
	ip := interpreter.New(cfg)
	limits := marshal.Limits{MaxDepth: cfg.MarshalMaxDepth, MaxBytes: cfg.MarshalMaxBytes}
	ip.SetInlineRunner(executor.NewRunner(limits, ""))

	scanner := bufio.NewScanner(in)
	debugMode := false

	fmt.Fprint(out, logo)
	printHelp(out)

	for {
		fmt.Fprint(out, cyan+prompt+reset)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			switch line {
			case ".exit":
				fmt.Fprintln(out, yellow+"goodbye"+reset)
				return
			case ".clear":
				ip = interpreter.New(cfg)
				ip.SetInlineRunner(executor.NewRunner(limits, ""))
				fmt.Fprintln(out, green+"session reset"+reset)
				continue
			case ".debug":
				debugMode = !debugMode
				state := "off"
				if debugMode {
					state = "on"
				}
				fmt.Fprintf(out, gray+"debug mode %s\n"+reset, state)
				continue
			case ".help":
				printHelp(out)
				continue
			default:
				fmt.Fprintf(out, red+"unknown command: %s (try .help)\n"+reset, line)
				continue
			}
		}

		if debugMode {
			printTokens(out, line)
		}

		prog, errs := parser.ParseProgram(lexer.New(wrapMain(line)), "<repl>")
		if len(errs) > 0 {
			printParseErrors(out, errs)
			continue
		}

		if debugMode {
			printAST(out, prog)
		}

		evalReplLine(out, ip, prog)
	}
}

// wrapMain lets the REPL accept bare statements/expressions by wrapping
// them in a throwaway main block; evalReplLine then re-runs the wrapped
// statements directly against the session's persistent global
// environment rather than through Interp.Run's fresh child scope, so
// `let` bindings survive across lines.
func wrapMain(line string) string {
	return "main {\n" + line + "\n}"
}

func evalReplLine(out io.Writer, ip *interpreter.Interp, prog *ast.Program) {
	for _, decl := range prog.Declarations {
		main, ok := decl.(*ast.MainDecl)
		if !ok {
			continue
		}
		for _, stmt := range main.Body.Statements {
			result, err := ip.Eval(stmt, ip.Global())
			if err != nil {
				printEvalError(out, err)
				return
			}
			printEvalResult(out, result)
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, gray+"Commands:")
	fmt.Fprintln(out, "  .exit   quit the session")
	fmt.Fprintln(out, "  .clear  reset the session's environment")
	fmt.Fprintln(out, "  .debug  toggle token/AST tracing")
	fmt.Fprintln(out, "  .help   show this message"+reset)
	fmt.Fprintln(out)
}

func printTokens(out io.Writer, line string) {
	fmt.Fprintln(out, gray+"-- tokens --"+reset)
	l := lexer.New(line)
	for {
		tok, err := l.NextToken()
		if err != nil {
			fmt.Fprintln(out, red+err.Error()+reset)
			break
		}
		fmt.Fprintf(out, "%-18s %q\n", tok.Kind, tok.Lexeme)
		if tok.Kind == token.EOF {
			break
		}
	}
}

func printAST(out io.Writer, prog *ast.Program) {
	fmt.Fprintln(out, gray+"-- ast --"+reset)
	fmt.Fprintln(out, prog.String())
}

func printParseErrors(out io.Writer, errs []string) {
	fmt.Fprintln(out, red+bold+"parse errors:"+reset)
	for _, msg := range errs {
		fmt.Fprintf(out, red+"  - %s\n"+reset, msg)
	}
}

func printEvalError(out io.Writer, err error) {
	if nerr, ok := err.(*naaberr.Error); ok {
		fmt.Fprint(out, red+bold+nerr.FormatTrace()+reset)
		return
	}
	fmt.Fprintf(out, red+"error: %v\n"+reset, err)
}

func printEvalResult(out io.Writer, v value.Value) {
	if v.IsNull() {
		return
	}

	str := v.Inspect()
	switch v.Kind {
	case value.KindInt, value.KindFloat:
		fmt.Fprintf(out, yellow+"%s\n"+reset, str)
	case value.KindBool:
		color := green
		if !v.AsBool() {
			color = red
		}
		fmt.Fprintf(out, color+"%s\n"+reset, str)
	case value.KindString:
		fmt.Fprintf(out, green+"%s\n"+reset, str)
	case value.KindFunction, value.KindBlockFunction:
		fmt.Fprintf(out, purple+"%s\n"+reset, str)
	case value.KindList, value.KindDict:
		fmt.Fprintf(out, blue+"%s\n"+reset, str)
	case value.KindStruct, value.KindEnum:
		fmt.Fprintf(out, cyan+"%s\n"+reset, str)
	default:
		fmt.Fprintf(out, "%s\n", str)
	}
}
