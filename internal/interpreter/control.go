package interpreter

import (
	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

func (ip *Interp) evalLet(n *ast.LetStatement, env *value.Environment) (value.Value, error) {
	v := value.Null()
	if n.Value != nil {
		var err error
		v, err = ip.Eval(n.Value, env)
		if err != nil {
			return value.Null(), err
		}
	}
	if n.Type != nil {
		constraint := ip.typeConstraint(n.Type, nil)
		if !constraint.Check(v) {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.TypeError, "cannot assign %s to %q of type %s", v.TypeName(), n.Name.Value, constraint.Describe)
		}
	}
	env.Define(n.Name.Value, v)
	return value.Null(), nil
}

func (ip *Interp) evalReturn(n *ast.ReturnStatement, env *value.Environment) (value.Value, error) {
	if n.ReturnValue == nil {
		return value.Null(), returnSignal(value.Null())
	}
	v, err := ip.Eval(n.ReturnValue, env)
	if err != nil {
		return value.Null(), err
	}
	return value.Null(), returnSignal(v)
}

func (ip *Interp) evalIf(n *ast.IfStatement, env *value.Environment) (value.Value, error) {
	cond, err := ip.Eval(n.Condition, env)
	if err != nil {
		return value.Null(), err
	}
	if isTruthy(cond) {
		return ip.evalBlock(n.Consequence, env.Child())
	}
	if n.Alternative != nil {
		return ip.evalBlock(n.Alternative, env.Child())
	}
	return value.Null(), nil
}

func (ip *Interp) evalWhile(n *ast.WhileStatement, env *value.Environment) (value.Value, error) {
	result := value.Null()
	for {
		cond, err := ip.Eval(n.Condition, env)
		if err != nil {
			return value.Null(), err
		}
		if !isTruthy(cond) {
			return result, nil
		}
		v, err := ip.evalBlock(n.Body, env.Child())
		if err != nil {
			return v, err
		}
		result = v
	}
}

func (ip *Interp) evalFor(n *ast.ForStatement, env *value.Environment) (value.Value, error) {
	iterable, err := ip.Eval(n.Iterable, env)
	if err != nil {
		return value.Null(), err
	}

	var items []value.Value
	switch iterable.Kind {
	case value.KindList:
		items = iterable.AsList().Elements
	case value.KindDict:
		d := iterable.AsDict()
		for _, k := range d.Order {
			items = append(items, value.Str(k))
		}
	case value.KindString:
		for _, r := range iterable.AsString() {
			items = append(items, value.Str(string(r)))
		}
	default:
		return value.Null(), ip.throwErr(n.Iterable.Loc(), naaberr.TypeError, "%s is not iterable", iterable.TypeName())
	}

	result := value.Null()
	for _, item := range items {
		loopEnv := env.Child()
		loopEnv.Define(n.Iterator.Value, item)
		v, err := ip.evalBlock(n.Body, loopEnv)
		if err != nil {
			return v, err
		}
		result = v
	}
	return result, nil
}

// evalTry runs try/catch/finally per §4.4. This diverges deliberately from
// a naive port: the caught value is bound to the catch name, and finally
// always runs on both the normal and exceptional exit path, with whatever
// finally itself does (return or throw) superseding the pending outcome.
func (ip *Interp) evalTry(n *ast.TryStatement, env *value.Environment) (value.Value, error) {
	result, tryErr := ip.evalBlock(n.TryBlock, env.Child())
	pending := tryErr

	if sig, ok := asSignal(tryErr); ok && !sig.isReturn && n.CatchBlock != nil {
		catchEnv := env.Child()
		if n.CatchName != nil {
			catchEnv.Define(n.CatchName.Value, ip.errorToValue(sig.err))
		}
		result, pending = ip.evalBlock(n.CatchBlock, catchEnv)
	}

	if n.FinallyBlock != nil {
		if _, ferr := ip.evalBlock(n.FinallyBlock, env.Child()); ferr != nil {
			return value.Null(), ferr
		}
	}

	return result, pending
}

func (ip *Interp) evalThrow(n *ast.ThrowStatement, env *value.Environment) (value.Value, error) {
	v, err := ip.Eval(n.Value, env)
	if err != nil {
		return value.Null(), err
	}

	loc := n.Loc()
	kind := naaberr.RuntimeError
	msg := v.Inspect()
	if v.Kind == value.KindError {
		ev := v.AsError()
		kind = errKindFromString(ev.Kind)
		msg = ev.Message
	}

	e := naaberr.New(kind, loc.File, loc.Line, loc.Column, "%s", msg)
	e.Payload = v
	e.Frames = ip.frameTrace()
	return value.Null(), throwSignal(e)
}

func (ip *Interp) evalPipeline(n *ast.BinaryExpression, env *value.Environment) (value.Value, error) {
	left, err := ip.Eval(n.Left, env)
	if err != nil {
		return value.Null(), err
	}

	if call, ok := n.Right.(*ast.CallExpression); ok {
		fn, err := ip.Eval(call.Function, env)
		if err != nil {
			return value.Null(), err
		}
		args := make([]value.Value, 0, len(call.Arguments)+1)
		args = append(args, left)
		rest, err := ip.evalArgs(call.Arguments, env)
		if err != nil {
			return value.Null(), err
		}
		args = append(args, rest...)
		return ip.callValue(n.Loc(), fn, args, nil, nil)
	}

	fn, err := ip.Eval(n.Right, env)
	if err != nil {
		return value.Null(), err
	}
	return ip.callValue(n.Loc(), fn, []value.Value{left}, nil, nil)
}
