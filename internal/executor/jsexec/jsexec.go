// Package jsexec implements the JavaScript executor (§4.7): an embedded
// ECMAScript runtime via goja (pure Go — no library in the retrieved
// pack embeds a scripting VM, so this is an out-of-pack ecosystem choice
// for the spec's "embedded QuickJS" role). Block source executes once in
// a fresh goja.Runtime; repeated calls resolve and invoke a top-level
// function by name against that same runtime.
package jsexec

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/naab-lang/naab/internal/interpreter"
	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/registry"
	"github.com/naab-lang/naab/internal/value"
)

// Executor runs one JS block's top-level source once and dispatches
// repeated Call invocations against the resulting global scope.
type Executor struct {
	rt     *goja.Runtime
	limits marshal.Limits
}

// New parses and executes source once, leaving its top-level function
// declarations bound in the runtime's global object.
func New(source string, limits marshal.Limits) (*Executor, error) {
	rt := goja.New()
	if _, err := rt.RunString(source); err != nil {
		return nil, fmt.Errorf("jsexec: evaluating block source: %w", err)
	}
	return &Executor{rt: rt, limits: limits}, nil
}

// Call implements interpreter.Executor.
func (e *Executor) Call(ctx context.Context, funcName string, args []value.Value) (value.Value, error) {
	fnVal := e.rt.Get(funcName)
	if fnVal == nil || goja.IsUndefined(fnVal) {
		return value.Null(), fmt.Errorf("jsexec: block has no exported function %q", funcName)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return value.Null(), fmt.Errorf("jsexec: %q is not callable", funcName)
	}

	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jv, err := marshal.ToJS(e.rt, a, e.limits)
		if err != nil {
			return value.Null(), err
		}
		jsArgs[i] = jv
	}

	done := make(chan struct{})
	var result goja.Value
	var callErr error
	go func() {
		result, callErr = fn(goja.Undefined(), jsArgs...)
		close(done)
	}()
	select {
	case <-ctx.Done():
		e.rt.Interrupt("call cancelled")
		<-done
		return value.Null(), ctx.Err()
	case <-done:
	}
	if callErr != nil {
		return value.Null(), fmt.Errorf("jsexec: %s: %w", funcName, callErr)
	}
	return marshal.FromJS(e.rt, result, e.limits)
}

// RunInline implements the `<<javascript[...] body>>` inline form (§4.1,
// §6): bindings are injected as globals, body is evaluated directly, and
// its completion value is marshalled back.
func (e *Executor) RunInline(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	for name, v := range bindings {
		jv, err := marshal.ToJS(e.rt, v, e.limits)
		if err != nil {
			return value.Null(), err
		}
		if err := e.rt.Set(name, jv); err != nil {
			return value.Null(), fmt.Errorf("jsexec: binding %q: %w", name, err)
		}
	}
	result, err := e.rt.RunString(body)
	if err != nil {
		return value.Null(), fmt.Errorf("jsexec: inline body: %w", err)
	}
	return marshal.FromJS(e.rt, result, e.limits)
}

// GetAttribute resolves attribute access on a foreign object this
// runtime produced (§4.8's JS "pass-through (same-runtime only)" rule).
func (e *Executor) GetAttribute(ctx context.Context, obj *value.ForeignObject, name string) (value.Value, error) {
	if obj.ExecutorTag != "js" {
		return value.Null(), fmt.Errorf("jsexec: foreign object %q does not belong to this JS runtime", obj.DeclaredType)
	}
	gv, ok := obj.Handle.(goja.Value)
	if !ok {
		return value.Null(), fmt.Errorf("jsexec: foreign handle for %q is not a JS value", obj.DeclaredType)
	}
	o, ok := gv.(*goja.Object)
	if !ok {
		return value.Null(), fmt.Errorf("jsexec: %q has no attributes", obj.DeclaredType)
	}
	return marshal.FromJS(e.rt, o.Get(name), e.limits)
}

// Factory builds a fresh Executor per block record, implementing
// registry.ExecutorFactory for JS-language blocks.
type Factory struct {
	Limits marshal.Limits
}

func (f Factory) Language() string { return "JS" }

func (f Factory) Build(ctx context.Context, rec *registry.BlockRecord) (interpreter.Executor, error) {
	return New(rec.Source, f.Limits)
}

var (
	_ interpreter.Executor     = (*Executor)(nil)
	_ registry.ExecutorFactory = Factory{}
)
