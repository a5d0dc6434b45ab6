// Package pyexec implements the Python executor (§4.7): an embedded
// CPython-equivalent via gpython (pure Go — no Python-embedding library
// appears anywhere in the retrieved pack, so this is an out-of-pack
// ecosystem choice). Block source runs once into a fresh globals
// namespace; function invocation looks the name up in that namespace and
// calls it through py.Call, single-threaded per §5's GIL-equivalent
// discipline.
package pyexec

import (
	"context"
	"fmt"

	"github.com/go-python/gpython/py"
	_ "github.com/go-python/gpython/stdlib"

	"github.com/naab-lang/naab/internal/interpreter"
	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/registry"
	"github.com/naab-lang/naab/internal/value"
)

// Executor owns one gpython globals namespace, populated once from a
// block's source and reused across calls.
type Executor struct {
	ctx     *py.Context
	globals py.StringDict
	limits  marshal.Limits
}

// New runs source once, binding its top-level functions into a fresh
// globals namespace.
func New(source string, limits marshal.Limits) (*Executor, error) {
	ctx := py.NewContext(py.DefaultContextOpts())
	globals := py.NewStringDict()
	if _, err := py.RunString(ctx, source, "block.py", globals); err != nil {
		return nil, fmt.Errorf("pyexec: evaluating block source: %w", err)
	}
	return &Executor{ctx: ctx, globals: globals, limits: limits}, nil
}

// Call implements interpreter.Executor. It takes no lock: calls on one
// Executor are not serialized against each other.
func (e *Executor) Call(ctx context.Context, funcName string, args []value.Value) (value.Value, error) {
	fn, ok := e.globals[funcName]
	if !ok {
		return value.Null(), fmt.Errorf("pyexec: block has no exported function %q", funcName)
	}

	pyArgs := make(py.Tuple, len(args))
	for i, a := range args {
		pv, err := marshal.ToPy(a, e.limits)
		if err != nil {
			return value.Null(), err
		}
		pyArgs[i] = pv
	}

	result, err := py.Call(e.ctx, fn, pyArgs, nil)
	if err != nil {
		return value.Null(), fmt.Errorf("pyexec: %s: %w", funcName, err)
	}
	return marshal.FromPy(result, e.limits)
}

// GetAttribute resolves attribute access on a foreign object produced by
// this runtime (§4.8's Python "pass-through (same-runtime only)" rule).
func (e *Executor) GetAttribute(ctx context.Context, obj *value.ForeignObject, name string) (value.Value, error) {
	if obj.ExecutorTag != "python" {
		return value.Null(), fmt.Errorf("pyexec: foreign object %q does not belong to this Python runtime", obj.DeclaredType)
	}
	pv, ok := obj.Handle.(py.Object)
	if !ok {
		return value.Null(), fmt.Errorf("pyexec: foreign handle for %q is not a Python object", obj.DeclaredType)
	}
	attr, err := py.GetAttrString(pv, name)
	if err != nil {
		return value.Null(), fmt.Errorf("pyexec: %s.%s: %w", obj.DeclaredType, name, err)
	}
	return marshal.FromPy(attr, e.limits)
}

// RunInline implements the `<<python[...] body>>` inline form (§4.1, §6):
// bindings are injected into a child namespace seeded from the block's
// globals, body is executed as a single expression, and its value
// marshalled back.
func (e *Executor) RunInline(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	locals := py.NewStringDict()
	for k, v := range e.globals {
		locals[k] = v
	}
	for name, v := range bindings {
		pv, err := marshal.ToPy(v, e.limits)
		if err != nil {
			return value.Null(), err
		}
		locals[name] = pv
	}
	result, err := py.RunString(e.ctx, body, "<inline>", locals)
	if err != nil {
		return value.Null(), fmt.Errorf("pyexec: inline body: %w", err)
	}
	return marshal.FromPy(result, e.limits)
}

// Factory builds a fresh Executor per block record, implementing
// registry.ExecutorFactory for Python-language blocks.
type Factory struct {
	Limits marshal.Limits
}

func (f Factory) Language() string { return "PY" }

func (f Factory) Build(ctx context.Context, rec *registry.BlockRecord) (interpreter.Executor, error) {
	return New(rec.Source, f.Limits)
}

var (
	_ interpreter.Executor     = (*Executor)(nil)
	_ registry.ExecutorFactory = Factory{}
)
