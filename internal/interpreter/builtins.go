package interpreter

import (
	"fmt"
	"strings"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

// nativeFn is a builtin implemented in Go rather than NAAb, bound by name
// in the global scope unless shadowed by a user declaration of the same
// name (mirrors the teacher's GetBuiltin fallback in evalIdentifier).
type nativeFn func(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error)

func (ip *Interp) registerBuiltins() {
	ip.builtins = map[string]nativeFn{
		"print":       builtinPrint,
		"len":         builtinLen,
		"str":         builtinStr,
		"upper":       builtinUpper,
		"lower":       builtinLower,
		"split":       builtinSplit,
		"join":        builtinJoin,
		"append":      builtinAppend,
		"keys":        builtinKeys,
		"gc_collect":  builtinGCCollect,
	}
}

func arityErr(ip *Interp, loc ast.SourceLocation, name string, want, got int) error {
	return ip.throwErr(loc, naaberr.TypeError, "%s takes %d argument(s), got %d", name, want, got)
}

func builtinPrint(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	fmt.Fprintln(ip.output, strings.Join(parts, " "))
	return value.Null(), nil
}

func builtinLen(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null(), arityErr(ip, loc, "len", 1, len(args))
	}
	switch args[0].Kind {
	case value.KindList:
		return value.Int(int64(len(args[0].AsList().Elements))), nil
	case value.KindDict:
		return value.Int(int64(len(args[0].AsDict().Order))), nil
	case value.KindString:
		return value.Int(int64(len([]rune(args[0].AsString())))), nil
	default:
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "len does not support %s", args[0].TypeName())
	}
}

func builtinStr(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null(), arityErr(ip, loc, "str", 1, len(args))
	}
	if args[0].Kind == value.KindString {
		return args[0], nil
	}
	return value.Str(args[0].Inspect()), nil
}

func builtinUpper(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindString {
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "upper takes a single string argument")
	}
	return value.Str(strings.ToUpper(args[0].AsString())), nil
}

func builtinLower(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindString {
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "lower takes a single string argument")
	}
	return value.Str(strings.ToLower(args[0].AsString())), nil
}

func builtinSplit(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindString || args[1].Kind != value.KindString {
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "split requires (string, separator)")
	}
	parts := strings.Split(args[0].AsString(), args[1].AsString())
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.Str(p)
	}
	lv := value.ListOf(elems)
	ip.gc.Track(lv)
	return lv, nil
}

func builtinJoin(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindList || args[1].Kind != value.KindString {
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "join requires (list, separator)")
	}
	parts := make([]string, len(args[0].AsList().Elements))
	for i, e := range args[0].AsList().Elements {
		if e.Kind == value.KindString {
			parts[i] = e.AsString()
		} else {
			parts[i] = e.Inspect()
		}
	}
	return value.Str(strings.Join(parts, args[1].AsString())), nil
}

func builtinAppend(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindList {
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "append requires (list, value)")
	}
	src := args[0].AsList().Elements
	out := make([]value.Value, len(src)+1)
	copy(out, src)
	out[len(src)] = args[1]
	lv := value.ListOf(out)
	ip.gc.Track(lv)
	return lv, nil
}

func builtinKeys(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindDict {
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "keys requires a dict")
	}
	order := args[0].AsDict().Order
	elems := make([]value.Value, len(order))
	for i, k := range order {
		elems[i] = value.Str(k)
	}
	lv := value.ListOf(elems)
	ip.gc.Track(lv)
	return lv, nil
}

// builtinGCCollect triggers an explicit cycle collection (§4.5's
// `gc_collect()`), for programs that build up self-referential structures
// they want reclaimed before the next automatic threshold trip.
func builtinGCCollect(ip *Interp, loc ast.SourceLocation, args []value.Value) (value.Value, error) {
	ip.gc.Collect()
	return value.Null(), nil
}
