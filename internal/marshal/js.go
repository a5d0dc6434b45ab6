package marshal

import (
	"github.com/dop251/goja"

	"github.com/naab-lang/naab/internal/value"
)

// ToJS converts a guarded NAAb Value into a goja.Value (§4.8's JS column):
// int/float -> number, bool -> boolean, string -> string, list -> Array,
// dict -> object, struct -> object with the same field names, null ->
// null. Foreign objects pass through only if they already belong to this
// JS runtime.
func ToJS(rt *goja.Runtime, v value.Value, limits Limits) (goja.Value, error) {
	if err := Guard(v, limits); err != nil {
		return nil, err
	}
	return toJS(rt, v)
}

func toJS(rt *goja.Runtime, v value.Value) (goja.Value, error) {
	switch v.Kind {
	case value.KindNull:
		return goja.Null(), nil
	case value.KindInt:
		return rt.ToValue(v.AsInt()), nil
	case value.KindFloat:
		return rt.ToValue(v.AsFloat()), nil
	case value.KindBool:
		return rt.ToValue(v.AsBool()), nil
	case value.KindString:
		return rt.ToValue(v.AsString()), nil
	case value.KindList:
		elems := v.AsList().Elements
		out := make([]any, len(elems))
		for i, e := range elems {
			jv, err := toJS(rt, e)
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return rt.ToValue(out), nil
	case value.KindDict:
		d := v.AsDict()
		obj := rt.NewObject()
		for _, k := range d.Order {
			jv, err := toJS(rt, d.Entries[k])
			if err != nil {
				return nil, err
			}
			if err := obj.Set(k, jv); err != nil {
				return nil, marshalErr("setting dict key %q on JS object: %v", k, err)
			}
		}
		return obj, nil
	case value.KindStruct:
		s := v.AsStruct()
		obj := rt.NewObject()
		for _, name := range s.FieldOrder {
			jv, err := toJS(rt, s.Fields[name])
			if err != nil {
				return nil, err
			}
			if err := obj.Set(name, jv); err != nil {
				return nil, marshalErr("setting field %q on JS object: %v", name, err)
			}
		}
		return obj, nil
	case value.KindForeign:
		f := v.AsForeign()
		if err := rejectReentrantForeign(f, "js"); err != nil {
			return nil, err
		}
		gv, ok := f.Handle.(goja.Value)
		if !ok {
			return nil, marshalErr("foreign handle for %q is not a JS value", f.DeclaredType)
		}
		return gv, nil
	default:
		return nil, marshalErr("%s cannot be marshalled to JavaScript", v.TypeName())
	}
}

// FromJS converts a goja.Value returned by the JS executor back into a
// NAAb Value.
func FromJS(rt *goja.Runtime, gv goja.Value, limits Limits) (value.Value, error) {
	v, err := fromJS(rt, gv)
	if err != nil {
		return value.Null(), err
	}
	if err := Guard(v, limits); err != nil {
		return value.Null(), err
	}
	return v, nil
}

func fromJS(rt *goja.Runtime, gv goja.Value) (value.Value, error) {
	if gv == nil || goja.IsUndefined(gv) || goja.IsNull(gv) {
		return value.Null(), nil
	}

	exported := gv.Export()
	return fromExported(rt, gv, exported)
}

func fromExported(rt *goja.Runtime, gv goja.Value, exported any) (value.Value, error) {
	switch x := exported.(type) {
	case int64:
		return value.Int(x), nil
	case float64:
		return value.Float(x), nil
	case bool:
		return value.Bool(x), nil
	case string:
		return value.Str(x), nil
	case []any:
		elems := make([]value.Value, len(x))
		for i, e := range x {
			jv := rt.ToValue(e)
			cv, err := fromJS(rt, jv)
			if err != nil {
				return value.Null(), err
			}
			elems[i] = cv
		}
		return value.ListOf(elems), nil
	case map[string]any:
		return dictFromMap(rt, x)
	default:
		obj, ok := gv.(*goja.Object)
		if !ok {
			return value.Null(), marshalErr("cannot marshal JS value of Go type %T back to NAAb", exported)
		}
		return dictFromObject(rt, obj)
	}
}

func dictFromMap(rt *goja.Runtime, m map[string]any) (value.Value, error) {
	entries := make(map[string]value.Value, len(m))
	order := make([]string, 0, len(m))
	for k, raw := range m {
		cv, err := fromJS(rt, rt.ToValue(raw))
		if err != nil {
			return value.Null(), err
		}
		entries[k] = cv
		order = append(order, k)
	}
	return value.DictOf(entries, order), nil
}

func dictFromObject(rt *goja.Runtime, obj *goja.Object) (value.Value, error) {
	entries := make(map[string]value.Value)
	var order []string
	for _, k := range obj.Keys() {
		cv, err := fromJS(rt, obj.Get(k))
		if err != nil {
			return value.Null(), err
		}
		entries[k] = cv
		order = append(order, k)
	}
	return value.DictOf(entries, order), nil
}
