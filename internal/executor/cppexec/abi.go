package cppexec

import (
	"math"
	"unsafe"

	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/value"
)

// cArgToWord lowers one marshalled argument into the single machine word
// purego.SyscallN passes to the C function, following the platform C ABI
// purego itself targets: integers and pointers pass as-is, floats pass
// bit-reinterpreted (the callee's signature, declared via Config.Signatures,
// tells it how to reinterpret the word on the C side).
func cArgToWord(a marshal.CArg) uintptr {
	switch a.Kind {
	case value.KindInt:
		return uintptr(a.Int)
	case value.KindFloat:
		return uintptr(math.Float64bits(a.Float))
	case value.KindBool:
		if a.Bool {
			return 1
		}
		return 0
	case value.KindString:
		return uintptr(a.String)
	default:
		return 0
	}
}

// wordToValue lifts a raw return word back into a NAAb Value according
// to the function's declared return kind.
func wordToValue(word uintptr, kind value.Kind) value.Value {
	switch kind {
	case value.KindInt:
		return marshal.FromCABIInt(int64(word))
	case value.KindFloat:
		return marshal.FromCABIFloat(math.Float64frombits(uint64(word)))
	case value.KindBool:
		return marshal.FromCABIBool(int64(word))
	case value.KindString:
		return marshal.FromCABIString(unsafe.Pointer(word))
	default:
		return value.Null()
	}
}
