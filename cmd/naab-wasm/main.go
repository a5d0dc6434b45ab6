//go:build js && wasm

// Command naab-wasm builds to a WebAssembly module exposing NAAb's
// lex -> parse -> analyze -> interpret pipeline to a browser host.
// Build: GOOS=js GOARCH=wasm go build -o naab.wasm ./cmd/naab-wasm
package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/naab-lang/naab/internal/analyzer"
	"github.com/naab-lang/naab/internal/config"
	"github.com/naab-lang/naab/internal/interpreter"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/parser"
)

func main() {
	c := make(chan struct{})

	js.Global().Set("runNAAb", js.FuncOf(runCode))

	fmt.Println("NAAb WASM engine loaded.")
	<-c
}

// runCode is the JS<->Go bridge: it parses and interprets the program
// text from p[0] and returns {logs, result} or {error}. A block
// registry has nothing to resolve against in a browser sandbox, so
// `use BLOCK-...` declarations fail here. No inline-code runner is set
// either, so `<<js[...]>>`, `<<python[...]>>` and `<<sh[...]>>`
// expressions raise an error as well.
func runCode(this js.Value, p []js.Value) interface{} {
	code := p[0].String()

	var logs strings.Builder
	cfg := config.Load()
	ip := interpreter.New(cfg)
	ip.SetOutput(&logs)

	l := lexer.New(code)
	prog, errs := parser.ParseProgram(l, "<wasm>")
	if len(errs) > 0 {
		out := make([]interface{}, len(errs))
		for i, msg := range errs {
			out[i] = "parse error: " + msg
		}
		return map[string]interface{}{"error": out}
	}

	diags := analyzer.New().Analyze(prog)
	var hard []interface{}
	for _, d := range diags {
		if d.Severity == analyzer.SeverityError {
			hard = append(hard, d.String())
		}
	}
	if len(hard) > 0 {
		return map[string]interface{}{"error": hard}
	}

	result, err := ip.Run(prog)
	if err != nil {
		msg := err.Error()
		if nerr, ok := err.(*naaberr.Error); ok {
			msg = nerr.FormatTrace()
		}
		return map[string]interface{}{"error": []interface{}{msg}}
	}

	resultStr := ""
	if !result.IsNull() {
		resultStr = result.Inspect()
	}

	return map[string]interface{}{
		"logs":   logs.String(),
		"result": resultStr,
	}
}
