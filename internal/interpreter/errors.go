package interpreter

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

// throwErr builds a NAAb error at loc with the current call stack attached
// and wraps it as the throw signal Eval's error channel carries.
func (ip *Interp) throwErr(loc ast.SourceLocation, kind naaberr.Kind, format string, args ...any) error {
	e := naaberr.New(kind, loc.File, loc.Line, loc.Column, format, args...)
	e.Frames = ip.frameTrace()
	return throwSignal(e)
}

// wrapExternalErr adapts an error surfaced by a block loader or language
// executor into a NAAb error, passing a *naaberr.Error through unchanged.
func (ip *Interp) wrapExternalErr(loc ast.SourceLocation, kind naaberr.Kind, err error) error {
	if e, ok := err.(*naaberr.Error); ok {
		return throwSignal(e)
	}
	e := naaberr.New(kind, loc.File, loc.Line, loc.Column, "%s", err.Error())
	e.Frames = ip.frameTrace()
	return throwSignal(e)
}

// frameTrace snapshots the live call stack innermost-first, the order
// FormatTrace expects (§4.9). Frames already present on the stack at throw
// time fully describe the trace, so nothing is appended on unwind.
func (ip *Interp) frameTrace() []naaberr.StackFrame {
	n := len(ip.callStack)
	out := make([]naaberr.StackFrame, n)
	for i, f := range ip.callStack {
		out[n-1-i] = f
	}
	return out
}

// maxTraceFrames bounds a cycle-limit trace so a runaway recursion doesn't
// also produce an unreadably long report (§8 scenario 3: "a truncated
// trace").
const maxTraceFrames = 50

func (ip *Interp) frameTraceTruncated() []naaberr.StackFrame {
	full := ip.frameTrace()
	if len(full) <= maxTraceFrames {
		return full
	}
	return full[:maxTraceFrames]
}

// errorToValue produces the Value a catch clause binds: the original
// thrown Value if one was thrown, or a fresh ErrorValue built from the
// NAAb error otherwise (e.g. a TypeError raised by the interpreter itself
// rather than an explicit `throw`).
func (ip *Interp) errorToValue(e *naaberr.Error) value.Value {
	if v, ok := e.Payload.(value.Value); ok {
		return v
	}
	ev := &value.ErrorValue{Kind: string(e.Kind), Message: e.Message}
	return value.ErrorOf(ev)
}

// errKindFromString maps a thrown error's Kind field (set by user code
// constructing an error value, or by a prior catch) back onto the closed
// naaberr.Kind set, defaulting to RuntimeError for anything unrecognized.
func errKindFromString(s string) naaberr.Kind {
	switch naaberr.Kind(s) {
	case naaberr.SyntaxError, naaberr.TypeError, naaberr.NameError, naaberr.RuntimeError,
		naaberr.NullSafetyError, naaberr.BlockNotFound, naaberr.CompileError,
		naaberr.MarshalError, naaberr.TimeoutError, naaberr.CycleLimitError:
		return naaberr.Kind(s)
	default:
		return naaberr.RuntimeError
	}
}
