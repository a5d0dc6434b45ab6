package analyzer

import "github.com/naab-lang/naab/internal/ast"

var builtinTypeNames = map[string]bool{
	"int": true, "float": true, "bool": true, "string": true,
	"list": true, "dict": true, "any": true, "void": true,
}

// isPascalCase reports whether name starts with an uppercase ASCII letter,
// the convention user-declared struct/enum types must follow (§4.3 "type
// names are strictly lowercase for built-ins; PascalCase for user types").
func isPascalCase(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// checkTypeNameCase validates one simple type name against the lowercase-
// builtin / PascalCase-user-type rule, recursing into compound type
// expressions (union, nullable, generic, function signature).
func checkTypeNameCase(t ast.TypeExpr) (name string, ok bool) {
	switch n := t.(type) {
	case nil:
		return "", true
	case *ast.NamedType:
		if builtinTypeNames[n.Name] {
			return "", true
		}
		if isPascalCase(n.Name) {
			return "", true
		}
		return n.Name, false
	case *ast.QualifiedType:
		if isPascalCase(n.Name) {
			return "", true
		}
		return n.Module + "." + n.Name, false
	case *ast.GenericType:
		if !builtinTypeNames[n.Name] && !isPascalCase(n.Name) {
			return n.Name, false
		}
		for _, arg := range n.Args {
			if bad, ok := checkTypeNameCase(arg); !ok {
				return bad, false
			}
		}
		return "", true
	case *ast.UnionType:
		if bad, ok := checkTypeNameCase(n.Left); !ok {
			return bad, false
		}
		return checkTypeNameCase(n.Right)
	case *ast.NullableType:
		return checkTypeNameCase(n.Inner)
	case *ast.FunctionType:
		for _, p := range n.Params {
			if bad, ok := checkTypeNameCase(p); !ok {
				return bad, false
			}
		}
		return checkTypeNameCase(n.ReturnType)
	default:
		return "", true
	}
}

// isNullable reports whether t is `T?` or a union containing `null`'s
// sentinel "any"-as-null escape hatch is not modeled here: only the
// explicit postfix form counts (§4.3).
func isNullable(t ast.TypeExpr) bool {
	switch n := t.(type) {
	case *ast.NullableType:
		return true
	case *ast.UnionType:
		return isNullable(n.Left) || isNullable(n.Right)
	default:
		return false
	}
}

// staticLiteralTypeName does a best-effort, purely syntactic classification
// of an expression's type for the subset of cases §4.3 can check without
// running the program (literals only); anything else returns "", false and
// is left to the interpreter's runtime TypeConstraint checks (documented in
// DESIGN.md: full runtime-observed inference belongs to the evaluator, not
// this static pass).
func staticLiteralTypeName(e ast.Expression) (string, bool) {
	switch e.(type) {
	case *ast.IntegerLiteral:
		return "int", true
	case *ast.FloatLiteral:
		return "float", true
	case *ast.BooleanLiteral:
		return "bool", true
	case *ast.StringLiteral:
		return "string", true
	case *ast.ListLiteral:
		return "list", true
	case *ast.DictLiteral:
		return "dict", true
	case *ast.NullLiteral:
		return "null", true
	default:
		return "", false
	}
}

func isNullLiteral(e ast.Expression) bool {
	_, ok := e.(*ast.NullLiteral)
	return ok
}
