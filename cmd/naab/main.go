package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/naab-lang/naab/internal/analyzer"
	"github.com/naab-lang/naab/internal/config"
	"github.com/naab-lang/naab/internal/executor"
	"github.com/naab-lang/naab/internal/executor/cppexec"
	"github.com/naab-lang/naab/internal/interpreter"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/parser"
	"github.com/naab-lang/naab/internal/registry"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: naab <file.naab>")
		os.Exit(1)
	}
	os.Exit(run(os.Args[1]))
}

// run parses, analyzes, and interprets a NAAb program, returning the
// process exit code (§6: "Exit code 1 for any uncaught error; 0 on
// success").
func run(path string) int {
	cfg := config.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "naab: %v\n", err)
		return 1
	}

	l := lexer.New(string(data))
	prog, errs := parser.ParseProgram(l, path)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", naaberr.SyntaxError, e)
		}
		return 1
	}

	diags := analyzer.New().Analyze(prog)
	hardFailure := false
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
		if d.Severity == analyzer.SeverityError {
			hardFailure = true
		}
	}
	if hardFailure {
		return 1
	}

	ip := interpreter.New(cfg)
	wireBlockSubsystem(ip, cfg)

	if _, err := ip.Run(prog); err != nil {
		if nerr, ok := err.(*naaberr.Error); ok {
			fmt.Fprint(os.Stderr, nerr.FormatTrace())
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", naaberr.RuntimeError, err)
		}
		return 1
	}
	return 0
}

// wireBlockSubsystem assembles the registry + executor layer and wires it
// into the interpreter (§4.6, §4.7): a sqlite-backed block store, one
// ExecutorFactory per language, and the cross-language InlineRunner.
func wireBlockSubsystem(ip *interpreter.Interp, cfg *config.Config) {
	limits := marshal.Limits{MaxDepth: cfg.MarshalMaxDepth, MaxBytes: cfg.MarshalMaxBytes}

	storePath := cfg.CacheDir + "/registry.db"
	store, err := registry.Open(storePath)
	if err != nil {
		logrus.WithError(err).Warn("naab: block registry unavailable; `use` declarations will fail to resolve")
		ip.SetInlineRunner(executor.NewRunner(limits, ""))
		return
	}

	cppCfg := cppexec.Config{
		Toolchain: cfg.CppToolchain,
		CacheDir:  cfg.CacheDir + "/cpp-artifacts",
		Limits:    limits,
	}

	loader := registry.NewLoader(store,
		executor.CppFactory(cppCfg),
		executor.JsFactory(limits),
		executor.PyFactory(limits),
	)
	ip.SetBlockLoader(loader)
	ip.SetInlineRunner(executor.NewRunner(limits, ""))
}
