// Package cppexec implements the C++ executor (§4.7): on first call to a
// block, scan its source for #include directives via internal/libdetect,
// resolve linker flags, compile to a position-independent shared object
// (cached by content hash of source+flags+toolchain-fingerprint), dlopen
// it with purego (pure Go, cgo-free — the standard ecosystem choice for
// dlopen/dlsym without cgo, since no library in the retrieved pack
// embeds a dynamic C loader), and resolve extern "C" symbols by name.
// Subsequent calls reuse the loaded object (§5's resource policy).
package cppexec

import (
	"context"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/naab-lang/naab/internal/interpreter"
	"github.com/naab-lang/naab/internal/libdetect"
	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/registry"
	"github.com/naab-lang/naab/internal/value"
)

// Signature describes one exported function's parameter kinds, needed
// because purego's dynamic call path (SyscallN) has no type information
// of its own — unlike its typed RegisterFunc path, which requires a
// Go function signature fixed at compile time and so cannot serve a
// block whose functions are discovered at runtime.
type Signature struct {
	Params []value.Kind
	Return value.Kind
}

// Config configures one Executor's toolchain and caching.
type Config struct {
	Toolchain string // e.g. "clang++"
	CacheDir  string
	Table     []libdetect.Entry // nil uses libdetect.DefaultTable
	Limits    marshal.Limits
	// Signatures declares the parameter/return kinds of each exported
	// function a block exposes; the core's static type system checks
	// call sites, but the dynamic FFI boundary still needs this to know
	// how to lower each value.Value into a machine word.
	Signatures map[string]Signature
}

// Executor owns one block's compiled-and-loaded shared object.
type Executor struct {
	cfg     Config
	handle  uintptr
	mu      sync.Mutex
	symbols map[string]uintptr
}

// New scans source for includes, compiles (or reuses a cached build of)
// the resulting shared object, and dlopens it.
func New(ctx context.Context, blockID, source string, cfg Config) (*Executor, error) {
	scanner := libdetect.NewScanner(cfg.Table)
	report, err := scanner.Scan(ctx, "CPP", source)
	if err != nil {
		return nil, fmt.Errorf("cppexec: scanning includes: %w", err)
	}

	fp, err := probeToolchain(ctx, cfg.Toolchain)
	if err != nil {
		return nil, err
	}

	cache, err := newArtifactCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	hash := contentHash(source, report.Flags, fp)
	soPath := cache.Lookup(blockID, hash)
	if soPath == "" {
		soPath, _ = cache.entryPaths(blockID, hash)
		if err := compile(ctx, cfg.Toolchain, source, soPath, report.Flags); err != nil {
			return nil, err
		}
		if err := cache.Store(blockID, hash, sidecar{
			Source: source, Flags: report.Flags, Toolchain: fp.String(), DetectedOf: report.Detected,
		}); err != nil {
			return nil, err
		}
	}

	handle, err := purego.Dlopen(soPath, purego.RTLD_LAZY|purego.RTLD_LOCAL)
	if err != nil {
		return nil, &SymbolError{BlockID: blockID, Detail: fmt.Sprintf("dlopen %s: %v", soPath, err)}
	}

	return &Executor{cfg: cfg, handle: handle, symbols: make(map[string]uintptr)}, nil
}

func (e *Executor) symbol(name string) (uintptr, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sym, ok := e.symbols[name]; ok {
		return sym, nil
	}
	sym, err := purego.Dlsym(e.handle, name)
	if err != nil {
		return 0, &SymbolError{Detail: fmt.Sprintf("symbol %q not found: %v", name, err)}
	}
	e.symbols[name] = sym
	return sym, nil
}

// SymbolError is raised when dlopen or dlsym fails (§4.7 "missing
// library, symbol not found").
type SymbolError struct {
	BlockID string
	Detail  string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("cppexec: %s", e.Detail)
}

// Call implements interpreter.Executor: resolves and invokes an
// extern "C" symbol through purego's untyped call path, since the set of
// callable functions (and their signatures) is only known at runtime via
// cfg.Signatures, not at Go compile time.
func (e *Executor) Call(ctx context.Context, funcName string, args []value.Value) (value.Value, error) {
	sig, ok := e.cfg.Signatures[funcName]
	if !ok {
		return value.Null(), fmt.Errorf("cppexec: no declared signature for %q", funcName)
	}
	if len(args) != len(sig.Params) {
		return value.Null(), fmt.Errorf("cppexec: %s expects %d arguments, got %d", funcName, len(sig.Params), len(args))
	}

	sym, err := e.symbol(funcName)
	if err != nil {
		return value.Null(), err
	}

	words := make([]uintptr, len(args))
	for i, a := range args {
		carg, err := marshal.ToCABI(a, e.cfg.Limits)
		if err != nil {
			return value.Null(), err
		}
		words[i] = cArgToWord(carg)
	}

	r1, _, errno := purego.SyscallN(sym, words...)
	if errno != 0 {
		return value.Null(), fmt.Errorf("cppexec: %s: errno %d", funcName, errno)
	}
	return wordToValue(r1, sig.Return), nil
}

// GetAttribute is unsupported for C++: compiled objects expose no
// runtime-introspectable attributes, only the function symbols a block
// declares (§4.8 "foreign object -> error (cannot re-enter)").
func (e *Executor) GetAttribute(ctx context.Context, obj *value.ForeignObject, name string) (value.Value, error) {
	return value.Null(), fmt.Errorf("cppexec: C++ foreign objects expose no attributes (requested %q)", name)
}

// Factory builds a fresh Executor per block record, implementing
// registry.ExecutorFactory for C++-language blocks.
type Factory struct {
	Base Config
}

func (f Factory) Language() string { return "CPP" }

func (f Factory) Build(ctx context.Context, rec *registry.BlockRecord) (interpreter.Executor, error) {
	return New(ctx, rec.ID, rec.Source, f.Base)
}

var (
	_ interpreter.Executor     = (*Executor)(nil)
	_ registry.ExecutorFactory = Factory{}
)
