package interpreter

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

func isTruthy(v value.Value) bool {
	switch v.Kind {
	case value.KindNull:
		return false
	case value.KindBool:
		return v.AsBool()
	case value.KindInt:
		return v.AsInt() != 0
	case value.KindFloat:
		return v.AsFloat() != 0
	case value.KindString:
		return v.AsString() != ""
	default:
		return true
	}
}

func isNumeric(v value.Value) bool {
	return v.Kind == value.KindInt || v.Kind == value.KindFloat
}

func asFloat(v value.Value) float64 {
	if v.Kind == value.KindInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func (ip *Interp) evalUnary(n *ast.UnaryExpression, env *value.Environment) (value.Value, error) {
	right, err := ip.Eval(n.Right, env)
	if err != nil {
		return value.Null(), err
	}
	switch n.Operator {
	case "-":
		switch right.Kind {
		case value.KindInt:
			return value.Int(-right.AsInt()), nil
		case value.KindFloat:
			return value.Float(-right.AsFloat()), nil
		}
		return value.Null(), ip.throwErr(n.Loc(), naaberr.TypeError, "unknown operator: -%s", right.TypeName())
	case "!":
		return value.Bool(!isTruthy(right)), nil
	default:
		return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "unknown unary operator %s", n.Operator)
	}
}

func (ip *Interp) evalBinary(n *ast.BinaryExpression, env *value.Environment) (value.Value, error) {
	switch n.Operator {
	case "|>":
		return ip.evalPipeline(n, env)
	case "&&":
		left, err := ip.Eval(n.Left, env)
		if err != nil {
			return value.Null(), err
		}
		if !isTruthy(left) {
			return value.Bool(false), nil
		}
		right, err := ip.Eval(n.Right, env)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(isTruthy(right)), nil
	case "||":
		left, err := ip.Eval(n.Left, env)
		if err != nil {
			return value.Null(), err
		}
		if isTruthy(left) {
			return value.Bool(true), nil
		}
		right, err := ip.Eval(n.Right, env)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(isTruthy(right)), nil
	}

	left, err := ip.Eval(n.Left, env)
	if err != nil {
		return value.Null(), err
	}
	right, err := ip.Eval(n.Right, env)
	if err != nil {
		return value.Null(), err
	}
	return ip.applyBinaryOp(n, left, n.Operator, right)
}

func (ip *Interp) applyBinaryOp(n *ast.BinaryExpression, left value.Value, op string, right value.Value) (value.Value, error) {
	switch {
	case left.Kind == value.KindInt && right.Kind == value.KindInt:
		return ip.intOp(n, left.AsInt(), op, right.AsInt())
	case isNumeric(left) && isNumeric(right):
		return ip.floatOp(n, asFloat(left), op, asFloat(right))
	case left.Kind == value.KindString && right.Kind == value.KindString:
		return ip.stringOp(n, left.AsString(), op, right.AsString())
	case op == "==":
		return value.Bool(valuesEqual(left, right)), nil
	case op == "!=":
		return value.Bool(!valuesEqual(left, right)), nil
	default:
		return value.Null(), ip.throwErr(n.Loc(), naaberr.TypeError, "unsupported operand types for %s: %s and %s", op, left.TypeName(), right.TypeName())
	}
}

func (ip *Interp) intOp(n *ast.BinaryExpression, l int64, op string, r int64) (value.Value, error) {
	switch op {
	case "+":
		return value.Int(l + r), nil
	case "-":
		return value.Int(l - r), nil
	case "*":
		return value.Int(l * r), nil
	case "/":
		if r == 0 {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "division by zero")
		}
		return value.Int(l / r), nil
	case "%":
		if r == 0 {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "modulo by zero")
		}
		return value.Int(l % r), nil
	case "==":
		return value.Bool(l == r), nil
	case "!=":
		return value.Bool(l != r), nil
	case "<":
		return value.Bool(l < r), nil
	case ">":
		return value.Bool(l > r), nil
	case "<=":
		return value.Bool(l <= r), nil
	case ">=":
		return value.Bool(l >= r), nil
	default:
		return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "unknown operator: int %s int", op)
	}
}

func (ip *Interp) floatOp(n *ast.BinaryExpression, l float64, op string, r float64) (value.Value, error) {
	switch op {
	case "+":
		return value.Float(l + r), nil
	case "-":
		return value.Float(l - r), nil
	case "*":
		return value.Float(l * r), nil
	case "/":
		if r == 0 {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "division by zero")
		}
		return value.Float(l / r), nil
	case "==":
		return value.Bool(l == r), nil
	case "!=":
		return value.Bool(l != r), nil
	case "<":
		return value.Bool(l < r), nil
	case ">":
		return value.Bool(l > r), nil
	case "<=":
		return value.Bool(l <= r), nil
	case ">=":
		return value.Bool(l >= r), nil
	default:
		return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "unknown operator: float %s float", op)
	}
}

func (ip *Interp) stringOp(n *ast.BinaryExpression, l string, op string, r string) (value.Value, error) {
	switch op {
	case "+":
		return value.Str(l + r), nil
	case "==":
		return value.Bool(l == r), nil
	case "!=":
		return value.Bool(l != r), nil
	case "<":
		return value.Bool(l < r), nil
	case ">":
		return value.Bool(l > r), nil
	case "<=":
		return value.Bool(l <= r), nil
	case ">=":
		return value.Bool(l >= r), nil
	default:
		return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "unknown operator: string %s string", op)
	}
}

// valuesEqual is a structural equality check used for == / != between
// values that aren't both numeric or both strings (lists, dicts, structs,
// enums, null, bool). Inspect-based comparison is sufficient for the value
// shapes NAAb supports and keeps this from needing a second recursive
// walker alongside Inspect itself.
func valuesEqual(a, b value.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.KindNull:
		return true
	case value.KindBool:
		return a.AsBool() == b.AsBool()
	default:
		return a.Inspect() == b.Inspect()
	}
}
