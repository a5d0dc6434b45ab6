package interpreter

import (
	"context"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

func (ip *Interp) evalListLiteral(n *ast.ListLiteral, env *value.Environment) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for i, e := range n.Elements {
		v, err := ip.Eval(e, env)
		if err != nil {
			return value.Null(), err
		}
		elems[i] = v
	}
	lv := value.ListOf(elems)
	ip.gc.Track(lv)
	return lv, nil
}

func (ip *Interp) evalDictLiteral(n *ast.DictLiteral, env *value.Environment) (value.Value, error) {
	entries := make(map[string]value.Value, len(n.Entries))
	order := make([]string, 0, len(n.Entries))
	for _, e := range n.Entries {
		kv, err := ip.Eval(e.Key, env)
		if err != nil {
			return value.Null(), err
		}
		if kv.Kind != value.KindString {
			return value.Null(), ip.throwErr(e.Key.Loc(), naaberr.TypeError, "dict keys must be strings, got %s", kv.TypeName())
		}
		vv, err := ip.Eval(e.Value, env)
		if err != nil {
			return value.Null(), err
		}
		key := kv.AsString()
		if _, exists := entries[key]; !exists {
			order = append(order, key)
		}
		entries[key] = vv
	}
	dv := value.DictOf(entries, order)
	ip.gc.Track(dv)
	return dv, nil
}

func (ip *Interp) evalStructLiteral(n *ast.StructLiteral, env *value.Environment) (value.Value, error) {
	decl, ok := ip.structDecls[n.Name.Value]
	if !ok {
		return value.Null(), ip.throwErr(n.Loc(), naaberr.NameError, "unknown struct type %q", n.Name.Value)
	}

	provided := make(map[string]value.Value, len(n.Fields))
	for _, fi := range n.Fields {
		v, err := ip.Eval(fi.Value, env)
		if err != nil {
			return value.Null(), err
		}
		provided[fi.Name.Value] = v
	}

	fields := make(map[string]value.Value, len(decl.Fields))
	order := make([]string, len(decl.Fields))
	for i, f := range decl.Fields {
		order[i] = f.Name.Value
		if v, ok := provided[f.Name.Value]; ok {
			if constraint := ip.typeConstraint(f.Type, nil); !constraint.Check(v) {
				return value.Null(), ip.throwErr(n.Loc(), naaberr.TypeError, "field %q of %s: expected %s, got %s", f.Name.Value, decl.Name.Value, constraint.Describe, v.TypeName())
			}
			fields[f.Name.Value] = v
			continue
		}
		if f.Default != nil {
			v, err := ip.Eval(f.Default, env)
			if err != nil {
				return value.Null(), err
			}
			fields[f.Name.Value] = v
			continue
		}
		return value.Null(), ip.throwErr(n.Loc(), naaberr.TypeError, "missing required field %q for struct %s", f.Name.Value, decl.Name.Value)
	}

	s := &value.StructInstance{TypeName: decl.Name.Value, FieldOrder: order, Fields: fields}
	sv := value.StructOf(s)
	ip.gc.Track(sv)
	return sv, nil
}

func (ip *Interp) evalIndex(n *ast.IndexExpression, env *value.Environment) (value.Value, error) {
	left, err := ip.Eval(n.Left, env)
	if err != nil {
		return value.Null(), err
	}
	idx, err := ip.Eval(n.Index, env)
	if err != nil {
		return value.Null(), err
	}
	switch left.Kind {
	case value.KindList:
		l := left.AsList()
		i := int(idx.AsInt())
		if i < 0 || i >= len(l.Elements) {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "list index %d out of range (len %d)", i, len(l.Elements))
		}
		return l.Elements[i], nil
	case value.KindDict:
		v, ok := left.AsDict().Get(idx.AsString())
		if !ok {
			return value.Null(), nil
		}
		return v, nil
	case value.KindString:
		runes := []rune(left.AsString())
		i := int(idx.AsInt())
		if i < 0 || i >= len(runes) {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "string index %d out of range (len %d)", i, len(runes))
		}
		return value.Str(string(runes[i])), nil
	default:
		return value.Null(), ip.throwErr(n.Loc(), naaberr.TypeError, "%s is not indexable", left.TypeName())
	}
}

func (ip *Interp) evalMember(n *ast.MemberExpression, env *value.Environment) (value.Value, error) {
	name := n.Field.Value

	// Type.Variant member access (no call) — only when the identifier isn't
	// shadowed by an actual binding of the same name.
	if ident, ok := n.Object.(*ast.Identifier); ok {
		if _, isVar := env.Get(ident.Value); !isVar {
			if decl, isEnum := ip.enumDecls[ident.Value]; isEnum {
				return ip.constructEnumVariant(decl, name, nil, n.Loc())
			}
		}
	}

	obj, err := ip.Eval(n.Object, env)
	if err != nil {
		return value.Null(), err
	}
	switch obj.Kind {
	case value.KindStruct:
		s := obj.AsStruct()
		v, ok := s.Fields[name]
		if !ok {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.NameError, "%s has no field %q", s.TypeName, name)
		}
		return v, nil
	case value.KindEnum:
		e := obj.AsEnum()
		switch name {
		case "tag":
			return value.Str(e.Tag), nil
		case "payload":
			if e.Payload == nil {
				return value.Null(), nil
			}
			return *e.Payload, nil
		default:
			return value.Null(), ip.throwErr(n.Loc(), naaberr.NameError, "enum %s has no member %q", e.TypeName, name)
		}
	case value.KindForeign:
		if ip.inline == nil {
			return value.Null(), ip.throwErr(n.Loc(), naaberr.RuntimeError, "no executor configured to resolve foreign member %q", name)
		}
		v, err := ip.inline.GetAttribute(context.Background(), obj.AsForeign(), name)
		if err != nil {
			return value.Null(), ip.wrapExternalErr(n.Loc(), naaberr.RuntimeError, err)
		}
		return v, nil
	case value.KindBlockFunction:
		bf := obj.AsBlockFunction()
		return value.BlockFunctionOf(&value.BlockFunction{BlockID: bf.BlockID, FuncName: name, LanguageTag: bf.LanguageTag}), nil
	default:
		return value.Null(), ip.throwErr(n.Loc(), naaberr.TypeError, "%s has no member %q", obj.TypeName(), name)
	}
}
