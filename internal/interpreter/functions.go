package interpreter

import (
	"strings"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

func (ip *Interp) makeFunctionValue(name string, typeParams []*ast.Identifier, params []ast.Param, retType ast.TypeExpr, body *ast.BlockStatement, env *value.Environment, loc ast.SourceLocation) *value.Function {
	tps := make([]string, len(typeParams))
	tpSet := make(map[string]bool, len(typeParams))
	for i, t := range typeParams {
		tps[i] = t.Value
		tpSet[t.Value] = true
	}
	vparams := make([]value.Param, len(params))
	for i, p := range params {
		vparams[i] = value.Param{
			Name:       p.Name.Value,
			IsRef:      p.IsRef,
			Default:    p.Default,
			Constraint: ip.typeConstraint(p.Type, tpSet),
		}
	}
	return &value.Function{
		Name:       name,
		TypeParams: tps,
		Params:     vparams,
		ReturnType: ip.typeConstraint(retType, tpSet),
		Body:       body,
		Env:        env,
		DeclFile:   loc.File,
		DeclLine:   loc.Line,
	}
}

func (ip *Interp) evalArgs(exprs []ast.Expression, env *value.Environment) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, err := ip.Eval(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ip *Interp) evalCall(n *ast.CallExpression, env *value.Environment) (value.Value, error) {
	if v, handled, err := ip.evalEnumConstruction(n, env); handled {
		return v, err
	}

	if ident, ok := n.Function.(*ast.Identifier); ok {
		if _, bound := env.Get(ident.Value); !bound {
			if fn, ok := ip.builtins[ident.Value]; ok {
				args, err := ip.evalArgs(n.Arguments, env)
				if err != nil {
					return value.Null(), err
				}
				return fn(ip, n.Loc(), args)
			}
		}
	}

	fnVal, err := ip.Eval(n.Function, env)
	if err != nil {
		return value.Null(), err
	}
	args, err := ip.evalArgs(n.Arguments, env)
	if err != nil {
		return value.Null(), err
	}
	return ip.callValue(n.Loc(), fnVal, args, n.Arguments, env)
}

// evalEnumConstruction special-cases `Type.Variant(payload)` call syntax:
// Type resolves as an enum declaration name rather than a bound variable,
// so the member access is variant construction, not a field/method call.
func (ip *Interp) evalEnumConstruction(n *ast.CallExpression, env *value.Environment) (value.Value, bool, error) {
	me, ok := n.Function.(*ast.MemberExpression)
	if !ok {
		return value.Value{}, false, nil
	}
	ident, ok := me.Object.(*ast.Identifier)
	if !ok {
		return value.Value{}, false, nil
	}
	if _, isVar := env.Get(ident.Value); isVar {
		return value.Value{}, false, nil
	}
	decl, isEnum := ip.enumDecls[ident.Value]
	if !isEnum {
		return value.Value{}, false, nil
	}

	var payload *value.Value
	if len(n.Arguments) > 0 {
		v, err := ip.Eval(n.Arguments[0], env)
		if err != nil {
			return value.Null(), true, err
		}
		payload = &v
	}
	v, err := ip.constructEnumVariant(decl, me.Field.Value, payload, n.Loc())
	return v, true, err
}

func (ip *Interp) constructEnumVariant(decl *ast.EnumDecl, tag string, payload *value.Value, loc ast.SourceLocation) (value.Value, error) {
	found := false
	for _, variant := range decl.Variants {
		if variant.Tag.Value == tag {
			found = true
			break
		}
	}
	if !found {
		return value.Null(), ip.throwErr(loc, naaberr.NameError, "%s has no variant %q", decl.Name.Value, tag)
	}
	ev := &value.EnumInstance{TypeName: decl.Name.Value, Tag: tag, Payload: payload}
	v := value.EnumOf(ev)
	ip.gc.Track(v)
	return v, nil
}

func (ip *Interp) callValue(loc ast.SourceLocation, fnVal value.Value, args []value.Value, argExprs []ast.Expression, callerEnv *value.Environment) (value.Value, error) {
	switch fnVal.Kind {
	case value.KindFunction:
		return ip.callFunction(loc, fnVal.AsFunction(), args, argExprs, callerEnv)
	case value.KindBlockFunction:
		return ip.callBlockFunction(loc, fnVal.AsBlockFunction(), args)
	default:
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "%s is not callable", fnVal.TypeName())
	}
}

func fnLabel(fn *value.Function) string {
	if fn.Name != "" {
		return fn.Name
	}
	return "<anonymous>"
}

// monomorphize resolves the specialized instance of a generic function for
// one call's argument types, caching by the runtime type names involved.
// There is no machine code to specialize in a tree-walker — the cache
// exists to give each distinct instantiation a stable identity for
// diagnostics and to match the monomorphization model described for the
// call boundary, not to change how the body executes.
func (ip *Interp) monomorphize(fn *value.Function, args []value.Value) *value.Function {
	if len(fn.TypeParams) == 0 {
		return fn
	}
	key := monoKey(args)

	fn.Lock()
	defer fn.Unlock()
	if fn.MonoCache() == nil {
		fn.SetMonoCache(make(map[string]*value.Function))
	}
	if cached, ok := fn.MonoCache()[key]; ok {
		return cached
	}
	specialized := *fn
	fn.MonoCache()[key] = &specialized
	return &specialized
}

func monoKey(args []value.Value) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.TypeName()
	}
	return strings.Join(names, ",")
}

func (ip *Interp) callFunction(loc ast.SourceLocation, fn *value.Function, args []value.Value, argExprs []ast.Expression, callerEnv *value.Environment) (value.Value, error) {
	specialized := ip.monomorphize(fn, args)

	if len(ip.callStack) >= ip.cfg.MaxStackDepth {
		e := naaberr.New(naaberr.CycleLimitError, loc.File, loc.Line, loc.Column, "maximum call depth %d exceeded", ip.cfg.MaxStackDepth)
		e.Frames = ip.frameTraceTruncated()
		return value.Null(), throwSignal(e)
	}

	callEnv := specialized.Env.Child()
	if err := ip.bindParams(specialized, args, callEnv, loc); err != nil {
		return value.Null(), err
	}

	frame := naaberr.StackFrame{Function: fnLabel(specialized), File: specialized.DeclFile, Line: specialized.DeclLine}
	ip.callStack = append(ip.callStack, frame)
	v, evalErr := ip.evalBlock(specialized.Body.(*ast.BlockStatement), callEnv)
	ip.callStack = ip.callStack[:len(ip.callStack)-1]

	var result value.Value
	var outErr error
	if sig, ok := asSignal(evalErr); ok && sig.isReturn {
		result, outErr = ip.checkReturnType(specialized, sig.value, loc)
	} else if evalErr != nil {
		outErr = evalErr
	} else {
		result, outErr = ip.checkReturnType(specialized, v, loc)
	}

	if outErr == nil {
		ip.writeBackRefs(specialized, callEnv, argExprs, callerEnv)
	}
	callEnv.Release()
	return result, outErr
}

func (ip *Interp) checkReturnType(fn *value.Function, v value.Value, loc ast.SourceLocation) (value.Value, error) {
	if !fn.ReturnType.Check(v) {
		return value.Null(), ip.throwErr(loc, naaberr.TypeError, "function %s: return value of type %s does not satisfy declared return type %s", fnLabel(fn), v.TypeName(), fn.ReturnType.Describe)
	}
	return v, nil
}

func (ip *Interp) bindParams(fn *value.Function, args []value.Value, env *value.Environment, loc ast.SourceLocation) error {
	if len(args) > len(fn.Params) {
		return ip.throwErr(loc, naaberr.TypeError, "too many arguments to %s: got %d, want %d", fnLabel(fn), len(args), len(fn.Params))
	}
	for i, p := range fn.Params {
		var v value.Value
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			defExpr, _ := p.Default.(ast.Expression)
			dv, err := ip.Eval(defExpr, fn.Env)
			if err != nil {
				return err
			}
			v = dv
		default:
			return ip.throwErr(loc, naaberr.TypeError, "missing required argument %q for function %s", p.Name, fnLabel(fn))
		}
		if !p.Constraint.Check(v) {
			return ip.throwErr(loc, naaberr.TypeError, "argument %q: expected %s, got %s", p.Name, p.Constraint.Describe, v.TypeName())
		}
		env.Define(p.Name, v)
	}
	return nil
}

// writeBackRefs copies a `ref` parameter's final bound value back to the
// lvalue its caller passed, modeling NAAb's call-duration shared alias
// (§4.4 Open Question: ref params). Non-lvalue argument expressions are
// silently skipped; the analyzer does not reject them either.
func (ip *Interp) writeBackRefs(fn *value.Function, callEnv *value.Environment, argExprs []ast.Expression, callerEnv *value.Environment) {
	if argExprs == nil || callerEnv == nil {
		return
	}
	for i, p := range fn.Params {
		if !p.IsRef || i >= len(argExprs) {
			continue
		}
		final, ok := callEnv.Get(p.Name)
		if !ok {
			continue
		}
		_ = ip.assignTarget(argExprs[i], final, callerEnv)
	}
}

func (ip *Interp) evalAssign(n *ast.AssignExpression, env *value.Environment) (value.Value, error) {
	v, err := ip.Eval(n.Value, env)
	if err != nil {
		return value.Null(), err
	}
	if err := ip.assignTarget(n.Target, v, env); err != nil {
		return value.Null(), err
	}
	return v, nil
}

func (ip *Interp) assignTarget(target ast.Expression, v value.Value, env *value.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if !env.Assign(t.Value, v) {
			return ip.throwErr(target.Loc(), naaberr.NameError, "cannot assign to undeclared name %q", t.Value)
		}
		return nil
	case *ast.IndexExpression:
		container, err := ip.Eval(t.Left, env)
		if err != nil {
			return err
		}
		idx, err := ip.Eval(t.Index, env)
		if err != nil {
			return err
		}
		switch container.Kind {
		case value.KindList:
			l := container.AsList()
			i := int(idx.AsInt())
			if i < 0 || i >= len(l.Elements) {
				return ip.throwErr(target.Loc(), naaberr.RuntimeError, "list index %d out of range (len %d)", i, len(l.Elements))
			}
			l.Elements[i] = v
			return nil
		case value.KindDict:
			container.AsDict().Set(idx.AsString(), v)
			return nil
		default:
			return ip.throwErr(target.Loc(), naaberr.TypeError, "%s is not indexable for assignment", container.TypeName())
		}
	case *ast.MemberExpression:
		obj, err := ip.Eval(t.Object, env)
		if err != nil {
			return err
		}
		if obj.Kind != value.KindStruct {
			return ip.throwErr(target.Loc(), naaberr.TypeError, "cannot assign field %q on %s", t.Field.Value, obj.TypeName())
		}
		s := obj.AsStruct()
		if _, ok := s.Fields[t.Field.Value]; !ok {
			return ip.throwErr(target.Loc(), naaberr.NameError, "%s has no field %q", s.TypeName, t.Field.Value)
		}
		s.Fields[t.Field.Value] = v
		return nil
	default:
		return ip.throwErr(target.Loc(), naaberr.RuntimeError, "invalid assignment target")
	}
}
