package interpreter

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/value"
)

// typeConstraint compiles a type expression into a runtime predicate
// checked at let-bindings, parameter binding, and function return (§4.3:
// lowercase built-ins, PascalCase user types, `?` nullable, `|` union).
// typeParams is the set of a generic function's own type-parameter names
// in scope (nil outside a generic declaration); any of them occurring as
// a NamedType/QualifiedType/GenericType name accepts any value, since
// NAAb infers generic instantiation from the call arguments rather than
// requiring an explicit `<T>` at the call site (§8 scenario 6).
func (ip *Interp) typeConstraint(t ast.TypeExpr, typeParams map[string]bool) value.TypeConstraint {
	if t == nil {
		return value.TypeConstraint{}
	}
	switch te := t.(type) {
	case *ast.NullableType:
		inner := ip.typeConstraint(te.Inner, typeParams)
		inner.Nullable = true
		return inner
	case *ast.NamedType:
		return ip.namedTypeConstraint(te.Name, typeParams)
	case *ast.QualifiedType:
		return ip.namedTypeConstraint(te.Name, typeParams)
	case *ast.GenericType:
		// Only the outer container shape is enforced; element types are
		// not deeply checked, matching how the analyzer treats generic
		// instantiation as an inference concern rather than a runtime one.
		return ip.namedTypeConstraint(te.Name, typeParams)
	case *ast.UnionType:
		left := ip.typeConstraint(te.Left, typeParams)
		right := ip.typeConstraint(te.Right, typeParams)
		return value.TypeConstraint{
			Nullable: left.Nullable || right.Nullable,
			Describe: te.String(),
			Accepts: func(v value.Value) bool {
				return left.Check(v) || right.Check(v)
			},
		}
	case *ast.FunctionType:
		return value.TypeConstraint{
			Describe: te.String(),
			Accepts: func(v value.Value) bool {
				return v.Kind == value.KindFunction || v.Kind == value.KindBlockFunction
			},
		}
	default:
		return value.TypeConstraint{}
	}
}

func (ip *Interp) namedTypeConstraint(name string, typeParams map[string]bool) value.TypeConstraint {
	if typeParams[name] {
		// A function's own type parameter (e.g. T in fn identity<T>(x: T) -> T):
		// accept anything, mirroring the "any" constraint below.
		return value.TypeConstraint{Describe: name}
	}
	switch name {
	case "any", "void":
		return value.TypeConstraint{Describe: name}
	case "int":
		return value.TypeConstraint{Describe: name, Accepts: func(v value.Value) bool { return v.Kind == value.KindInt }}
	case "float":
		return value.TypeConstraint{Describe: name, Accepts: func(v value.Value) bool { return v.Kind == value.KindFloat }}
	case "bool":
		return value.TypeConstraint{Describe: name, Accepts: func(v value.Value) bool { return v.Kind == value.KindBool }}
	case "string":
		return value.TypeConstraint{Describe: name, Accepts: func(v value.Value) bool { return v.Kind == value.KindString }}
	case "list":
		return value.TypeConstraint{Describe: name, Accepts: func(v value.Value) bool { return v.Kind == value.KindList }}
	case "dict":
		return value.TypeConstraint{Describe: name, Accepts: func(v value.Value) bool { return v.Kind == value.KindDict }}
	default:
		// PascalCase: a declared struct/enum name, or a foreign type tag.
		return value.TypeConstraint{Describe: name, Accepts: func(v value.Value) bool {
			switch v.Kind {
			case value.KindStruct:
				return v.AsStruct().TypeName == name
			case value.KindEnum:
				return v.AsEnum().TypeName == name
			case value.KindForeign:
				return v.AsForeign().DeclaredType == name
			default:
				return false
			}
		}}
	}
}
