// Package marshal implements the cross-language value marshaller (§4.8):
// a total, type-directed, depth/size-guarded translation between NAAb's
// value.Value universe and each executor's native representation. Block
// calls, inline-code expressions and foreign-object attribute access of the
// JS, Python and C++ executors pass through here. The `sh` inline form
// (internal/executor/shexec) does not: it passes bindings as Value.Inspect
// text and builds its result struct itself.
package marshal

import (
	"fmt"
	"strings"

	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

// Limits bounds one marshalling pass (§4.8, §5): nesting depth and
// aggregate payload size, both configurable with the documented defaults.
type Limits struct {
	MaxDepth int
	MaxBytes int64
}

// DefaultLimits mirrors the spec's stated defaults: depth 1000, 100 MB.
var DefaultLimits = Limits{MaxDepth: 1000, MaxBytes: 100 * 1024 * 1024}

// guardState threads the running size total through a recursive guard
// pass without requiring every call site to pre-compute it.
type guardState struct {
	limits Limits
	size   int64
}

// Guard validates v against limits before any executor-specific
// conversion is attempted: nesting depth, aggregate size, and NUL-free
// strings. It does not check numeric range. It returns a *naaberr.Error of
// kind MarshalError on violation.
func Guard(v value.Value, limits Limits) error {
	g := &guardState{limits: limits}
	return g.walk(v, 0)
}

func (g *guardState) walk(v value.Value, depth int) error {
	if depth > g.limits.MaxDepth {
		return marshalErr("value nesting depth %d exceeds limit %d", depth, g.limits.MaxDepth)
	}
	switch v.Kind {
	case value.KindNull, value.KindInt, value.KindFloat, value.KindBool:
		g.size += 8
	case value.KindString:
		s := v.AsString()
		if strings.IndexByte(s, 0) >= 0 {
			return marshalErr("string value contains an embedded NUL byte and cannot cross a language boundary")
		}
		g.size += int64(len(s))
	case value.KindList:
		for _, e := range v.AsList().Elements {
			if err := g.walk(e, depth+1); err != nil {
				return err
			}
		}
	case value.KindDict:
		d := v.AsDict()
		for _, k := range d.Order {
			g.size += int64(len(k))
			if err := g.walk(d.Entries[k], depth+1); err != nil {
				return err
			}
		}
	case value.KindStruct:
		s := v.AsStruct()
		for _, name := range s.FieldOrder {
			if err := g.walk(s.Fields[name], depth+1); err != nil {
				return err
			}
		}
	case value.KindEnum:
		e := v.AsEnum()
		if e.Payload != nil {
			if err := g.walk(*e.Payload, depth+1); err != nil {
				return err
			}
		}
	case value.KindForeign:
		g.size += 8
	default:
		return marshalErr("%s values cannot cross a language boundary", v.TypeName())
	}
	if g.size > g.limits.MaxBytes {
		return marshalErr("marshalled payload size %d bytes exceeds limit %d", g.size, g.limits.MaxBytes)
	}
	return nil
}

func marshalErr(format string, args ...any) error {
	return naaberr.New(naaberr.MarshalError, "", 0, 0, format, args...)
}

// rejectReentrantForeign enforces §4.8's "foreign object -> error (cannot
// re-enter)" rule for C++ and cross-runtime JS/Python pass-through: a
// ForeignObject may only continue on into the executor that produced it.
func rejectReentrantForeign(f *value.ForeignObject, executorTag string) error {
	if f.ExecutorTag != executorTag {
		return marshalErr("foreign object of type %q belongs to executor %q and cannot re-enter executor %q",
			f.DeclaredType, f.ExecutorTag, executorTag)
	}
	return nil
}
