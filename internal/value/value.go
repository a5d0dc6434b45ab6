// Package value implements NAAb's dynamic value universe: a tagged
// sum-type Value (one discriminant, a payload per kind — never a
// heap-allocated base class with virtual dispatch, per the interpreter's
// design notes), reference-counted heap objects, a cycle collector, and
// arena-allocated lexical environments addressed by index rather than
// pointer-per-binding.
//
// The scalar shape (discriminant + Inspect-style string form) is grounded
// on the teacher's object.Object family; everything heap-allocated adds
// the ownership bookkeeping the teacher's GC-backed runtime never needed.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Kind is the Value discriminant.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindList
	KindDict
	KindStruct
	KindEnum
	KindFunction
	KindBlockFunction
	KindForeign
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFunction, KindBlockFunction:
		return "function"
	case KindForeign:
		return "foreign"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is NAAb's single runtime representation: a discriminant plus one
// populated payload field. Scalars are stored inline; everything else is
// a pointer to a reference-counted heap object (refcount.go).
type Value struct {
	Kind Kind

	i int64
	f float64
	b bool
	s string

	list    *List
	dict    *Dict
	strct   *StructInstance
	enum    *EnumInstance
	fn      *Function
	blockFn *BlockFunction
	foreign *ForeignObject
	errv    *ErrorValue
}

func Null() Value              { return Value{Kind: KindNull} }
func Int(v int64) Value        { return Value{Kind: KindInt, i: v} }
func Float(v float64) Value    { return Value{Kind: KindFloat, f: v} }
func Bool(v bool) Value        { return Value{Kind: KindBool, b: v} }
func Str(v string) Value       { return Value{Kind: KindString, s: v} }

func ListOf(elems []Value) Value {
	l := &List{Elements: elems, refs: 1}
	return Value{Kind: KindList, list: l}
}

func DictOf(entries map[string]Value, order []string) Value {
	d := &Dict{Entries: entries, Order: order, refs: 1}
	return Value{Kind: KindDict, dict: d}
}

func StructOf(s *StructInstance) Value {
	s.refs = 1
	return Value{Kind: KindStruct, strct: s}
}

func EnumOf(e *EnumInstance) Value {
	e.refs = 1
	return Value{Kind: KindEnum, enum: e}
}

func FunctionOf(fn *Function) Value {
	fn.refs = 1
	return Value{Kind: KindFunction, fn: fn}
}

func BlockFunctionOf(bf *BlockFunction) Value {
	return Value{Kind: KindBlockFunction, blockFn: bf}
}

func ForeignOf(f *ForeignObject) Value {
	f.refs = 1
	return Value{Kind: KindForeign, foreign: f}
}

func ErrorOf(e *ErrorValue) Value {
	e.refs = 1
	return Value{Kind: KindError, errv: e}
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) AsInt() int64          { return v.i }
func (v Value) AsFloat() float64      { return v.f }
func (v Value) AsBool() bool          { return v.b }
func (v Value) AsString() string      { return v.s }
func (v Value) AsList() *List         { return v.list }
func (v Value) AsDict() *Dict         { return v.dict }
func (v Value) AsStruct() *StructInstance { return v.strct }
func (v Value) AsEnum() *EnumInstance { return v.enum }
func (v Value) AsFunction() *Function { return v.fn }
func (v Value) AsBlockFunction() *BlockFunction { return v.blockFn }
func (v Value) AsForeign() *ForeignObject { return v.foreign }
func (v Value) AsError() *ErrorValue  { return v.errv }

// TypeName is the runtime type name used in diagnostics: built-ins
// lowercase, struct/enum instances their declared PascalCase name (§4.3).
func (v Value) TypeName() string {
	switch v.Kind {
	case KindStruct:
		return v.strct.TypeName
	case KindEnum:
		return v.enum.TypeName
	default:
		return v.Kind.String()
	}
}

// Inspect renders a Value for display/debugging, mirroring the teacher's
// Object.Inspect() convention.
func (v Value) Inspect() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, len(v.list.Elements))
		for i, e := range v.list.Elements {
			parts[i] = e.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		keys := append([]string(nil), v.dict.Order...)
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, v.dict.Entries[k].Inspect())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindStruct:
		parts := make([]string, len(v.strct.FieldOrder))
		for i, name := range v.strct.FieldOrder {
			parts[i] = name + ": " + v.strct.Fields[name].Inspect()
		}
		return v.strct.TypeName + " {" + strings.Join(parts, ", ") + "}"
	case KindEnum:
		if v.enum.Payload == nil {
			return v.enum.TypeName + "." + v.enum.Tag
		}
		return v.enum.TypeName + "." + v.enum.Tag + "(" + v.enum.Payload.Inspect() + ")"
	case KindFunction:
		return "function(...) { ... }"
	case KindBlockFunction:
		return fmt.Sprintf("<block %s.%s>", v.blockFn.BlockID, v.blockFn.FuncName)
	case KindForeign:
		return fmt.Sprintf("<foreign %s>", v.foreign.DeclaredType)
	case KindError:
		return fmt.Sprintf("%s: %s", v.errv.Kind, v.errv.Message)
	default:
		return "<unknown>"
	}
}

// List is a heap-allocated, reference-counted ordered Value sequence.
type List struct {
	Elements []Value
	refs      int32
}

// Dict is a heap-allocated, insertion-ordered string->Value map.
type Dict struct {
	Entries map[string]Value
	Order   []string
	refs     int32
}

func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.Entries[key]
	return v, ok
}

func (d *Dict) Set(key string, v Value) {
	if _, exists := d.Entries[key]; !exists {
		d.Order = append(d.Order, key)
	}
	d.Entries[key] = v
}

// StructInstance is a struct value: declared type name plus an
// insertion-ordered field map (§3).
type StructInstance struct {
	TypeName   string
	FieldOrder []string
	Fields     map[string]Value
	refs        int32
}

// EnumInstance is an enum value: declared type name, the chosen variant
// tag, and an optional payload (§3).
type EnumInstance struct {
	TypeName string
	Tag      string
	Payload  *Value
	refs      int32
}

// Function is a user-defined closure: its declaration, captured lexical
// environment, and (if generic) its monomorphization cache (§4.4).
type Function struct {
	Name       string
	TypeParams []string
	Params     []Param
	ReturnType TypeConstraint
	Body       any // *ast.BlockStatement, typed any to avoid an import cycle
	Env        *Environment
	DeclFile   string
	DeclLine   int
	refs        int32

	monoCacheMu sync.Mutex
	monoCache   map[string]*Function
}

// Lock/Unlock guard MonoCache/SetMonoCache for concurrent monomorphization
// lookups (§4.4's generic functions may be called from multiple goroutines
// sharing one closure).
func (fn *Function) Lock()   { fn.monoCacheMu.Lock() }
func (fn *Function) Unlock() { fn.monoCacheMu.Unlock() }

// MonoCache/SetMonoCache expose the per-instantiation specialization cache
// to callers holding Lock, without making the field itself public.
func (fn *Function) MonoCache() map[string]*Function     { return fn.monoCache }
func (fn *Function) SetMonoCache(m map[string]*Function) { fn.monoCache = m }

// Param mirrors ast.Param's runtime-relevant shape.
type Param struct {
	Name       string
	IsRef      bool
	Default    any // *ast interpretable default expression, nil if none
	Constraint TypeConstraint
}

// TypeConstraint is a minimal runtime type-check predicate attached to a
// parameter/return/field slot; the analyzer and interpreter both build
// these from ast.TypeExpr (kept here, not in ast, so the value package has
// no dependency on ast).
type TypeConstraint struct {
	Nullable bool
	Accepts  func(Value) bool
	Describe string
}

func (tc TypeConstraint) Check(v Value) bool {
	if tc.Accepts == nil {
		return true
	}
	if v.IsNull() {
		return tc.Nullable
	}
	return tc.Accepts(v)
}

// BlockFunction is the triple (block-id, fn-name, language tag) bound by
// `use` — a handle into the block registry/executor, never a raw pointer
// into executor-internal memory (§9).
type BlockFunction struct {
	BlockID      string
	FuncName     string
	LanguageTag  string
}

// ForeignObject wraps an opaque handle from an executor (Python PyObject*
// equivalent, JS value handle, C++ void*) tagged with its declared type
// name so the marshaller can reject illegal re-entry (§3, §4.8).
type ForeignObject struct {
	DeclaredType string
	ExecutorTag  string
	Handle       any
	refs          int32
}

// ErrorValue is the heap payload behind a KindError Value (a thrown Value
// is always representable this way; see naaberr.Error for the structurally
// richer diagnostic type used internally by the interpreter).
type ErrorValue struct {
	Kind    string
	Message string
	Payload *Value
	refs     int32
}
