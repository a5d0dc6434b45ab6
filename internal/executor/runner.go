// Package executor assembles the per-language executors
// (cppexec/jsexec/pyexec/shexec) behind the single interpreter.InlineRunner
// the core consumes for `<<lang[...] body>>` expressions (§4.1, §6), and
// dispatches foreign-object attribute access by the object's owning
// executor tag (§4.8).
package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/naab-lang/naab/internal/executor/cppexec"
	"github.com/naab-lang/naab/internal/executor/jsexec"
	"github.com/naab-lang/naab/internal/executor/pyexec"
	"github.com/naab-lang/naab/internal/executor/shexec"
	"github.com/naab-lang/naab/internal/interpreter"
	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/value"
)

// Runner implements interpreter.InlineRunner by lazily creating one
// persistent JS/Python runtime for inline evaluation (reused across
// calls in the same process, since inline bodies have no block identity
// to cache a compiled artifact against) plus the stateless shell runner.
// Inline C++ is intentionally out of scope: §4.7's compile-cache pipeline
// is keyed by block id, which an inline body has none of.
type Runner struct {
	limits marshal.Limits

	mu sync.Mutex
	js *jsexec.Executor
	py *pyexec.Executor
	sh *shexec.Runner
}

// NewRunner builds a Runner with the given marshalling limits and shell.
func NewRunner(limits marshal.Limits, shell string) *Runner {
	return &Runner{limits: limits, sh: shexec.New(shell)}
}

func (r *Runner) jsRuntime() (*jsexec.Executor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.js == nil {
		exec, err := jsexec.New("", r.limits)
		if err != nil {
			return nil, err
		}
		r.js = exec
	}
	return r.js, nil
}

func (r *Runner) pyRuntime() (*pyexec.Executor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.py == nil {
		exec, err := pyexec.New("", r.limits)
		if err != nil {
			return nil, err
		}
		r.py = exec
	}
	return r.py, nil
}

// RunInline implements interpreter.InlineRunner.
func (r *Runner) RunInline(ctx context.Context, language, body string, bindings map[string]value.Value) (value.Value, error) {
	switch language {
	case "javascript":
		exec, err := r.jsRuntime()
		if err != nil {
			return value.Null(), err
		}
		return exec.RunInline(ctx, body, bindings)
	case "python":
		exec, err := r.pyRuntime()
		if err != nil {
			return value.Null(), err
		}
		return exec.RunInline(ctx, body, bindings)
	case "sh":
		return r.sh.RunInline(ctx, body, bindings)
	case "cpp":
		return value.Null(), fmt.Errorf("executor: inline cpp is not supported; register the body as a block instead")
	default:
		return value.Null(), fmt.Errorf("executor: unknown inline language %q", language)
	}
}

// GetAttribute implements interpreter.InlineRunner, dispatching by the
// foreign object's recorded executor tag.
func (r *Runner) GetAttribute(ctx context.Context, obj *value.ForeignObject, name string) (value.Value, error) {
	switch obj.ExecutorTag {
	case "js":
		exec, err := r.jsRuntime()
		if err != nil {
			return value.Null(), err
		}
		return exec.GetAttribute(ctx, obj, name)
	case "python":
		exec, err := r.pyRuntime()
		if err != nil {
			return value.Null(), err
		}
		return exec.GetAttribute(ctx, obj, name)
	default:
		return value.Null(), fmt.Errorf("executor: no attribute resolver for executor tag %q", obj.ExecutorTag)
	}
}

var _ interpreter.InlineRunner = (*Runner)(nil)

// CppFactory and friends are convenience constructors wiring cppexec,
// jsexec, and pyexec as registry.ExecutorFactory values; kept here so
// cmd/naab has one place to assemble the whole registry.Loader.
func CppFactory(cfg cppexec.Config) cppexec.Factory { return cppexec.Factory{Base: cfg} }
func JsFactory(limits marshal.Limits) jsexec.Factory { return jsexec.Factory{Limits: limits} }
func PyFactory(limits marshal.Limits) pyexec.Factory { return pyexec.Factory{Limits: limits} }
