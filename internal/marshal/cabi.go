package marshal

import (
	"unsafe"

	"github.com/naab-lang/naab/internal/value"
)

// CArg is one argument as the C++ executor lowers it to a machine word for
// purego's untyped SyscallN call path: C++'s marshalling column (§4.8) only covers 64-bit scalars and
// pointers directly, since extern "C" functions are called through
// purego's native call path rather than a generic boxed representation —
// there is no heap-allocated "object" on the C side to hand a struct or
// list to, so composite NAAb values must be lowered through an
// accessor-thunk ABI instead of handed across as one value (§4.7 "opaque
// handle with field-accessor thunks").
type CArg struct {
	Kind   value.Kind
	Int    int64
	Float  float64
	Bool   bool
	String unsafe.Pointer // NUL-terminated UTF-8, kept alive by the caller for the call's duration
}

// ToCABI lowers a guarded scalar NAAb Value into the argument purego
// passes straight through to the compiled function. Composite kinds
// (list, dict, struct, enum) are rejected here; callers needing to pass
// one marshal its fields individually through an accessor thunk instead.
func ToCABI(v value.Value, limits Limits) (CArg, error) {
	if err := Guard(v, limits); err != nil {
		return CArg{}, err
	}
	switch v.Kind {
	case value.KindNull:
		return CArg{Kind: value.KindNull}, nil
	case value.KindInt:
		return CArg{Kind: value.KindInt, Int: v.AsInt()}, nil
	case value.KindFloat:
		return CArg{Kind: value.KindFloat, Float: v.AsFloat()}, nil
	case value.KindBool:
		return CArg{Kind: value.KindBool, Bool: v.AsBool()}, nil
	case value.KindString:
		cstr := append([]byte(v.AsString()), 0)
		return CArg{Kind: value.KindString, String: unsafe.Pointer(&cstr[0])}, nil
	default:
		return CArg{}, marshalErr("%s must be passed to C++ through field-accessor thunks, not a direct argument", v.TypeName())
	}
}

// FromCABIInt and its siblings lift a raw return slot back into a NAAb
// Value; the C++ executor picks the matching one from the function's
// declared return kind in its Config.Signatures.

func FromCABIInt(raw int64) value.Value     { return value.Int(raw) }
func FromCABIFloat(raw float64) value.Value { return value.Float(raw) }
func FromCABIBool(raw int64) value.Value    { return value.Bool(raw != 0) }

// FromCABIString copies a NUL-terminated C string returned by the
// compiled function into an owned Go string; ownership of the original
// buffer remains with the C++ side per the spec's "owned UTF-8" column —
// the executor is responsible for knowing whether the callee expects the
// caller to free it.
func FromCABIString(ptr unsafe.Pointer) value.Value {
	if ptr == nil {
		return value.Null()
	}
	n := 0
	for {
		b := *(*byte)(unsafe.Pointer(uintptr(ptr) + uintptr(n)))
		if b == 0 {
			break
		}
		n++
	}
	buf := unsafe.Slice((*byte)(ptr), n)
	return value.Str(string(buf))
}
