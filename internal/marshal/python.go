package marshal

import (
	"github.com/go-python/gpython/py"

	"github.com/naab-lang/naab/internal/value"
)

// ToPy converts a guarded NAAb Value into a gpython py.Object (§4.8's
// Python column): int -> py.Int, float -> py.Float, bool -> py.Bool,
// string -> py.String, list -> py.List, dict -> py.StringDict, null ->
// py.None.
func ToPy(v value.Value, limits Limits) (py.Object, error) {
	if err := Guard(v, limits); err != nil {
		return nil, err
	}
	return toPy(v)
}

func toPy(v value.Value) (py.Object, error) {
	switch v.Kind {
	case value.KindNull:
		return py.None, nil
	case value.KindInt:
		return py.Int(v.AsInt()), nil
	case value.KindFloat:
		return py.Float(v.AsFloat()), nil
	case value.KindBool:
		if v.AsBool() {
			return py.True, nil
		}
		return py.False, nil
	case value.KindString:
		return py.String(v.AsString()), nil
	case value.KindList:
		elems := v.AsList().Elements
		items := make([]py.Object, len(elems))
		for i, e := range elems {
			pv, err := toPy(e)
			if err != nil {
				return nil, err
			}
			items[i] = pv
		}
		list := py.List(items)
		return &list, nil
	case value.KindDict:
		d := v.AsDict()
		dict := py.NewStringDict()
		for _, k := range d.Order {
			pv, err := toPy(d.Entries[k])
			if err != nil {
				return nil, err
			}
			dict[k] = pv
		}
		return dict, nil
	case value.KindStruct:
		s := v.AsStruct()
		dict := py.NewStringDict()
		for _, name := range s.FieldOrder {
			pv, err := toPy(s.Fields[name])
			if err != nil {
				return nil, err
			}
			dict[name] = pv
		}
		return dict, nil
	case value.KindForeign:
		f := v.AsForeign()
		if err := rejectReentrantForeign(f, "python"); err != nil {
			return nil, err
		}
		pv, ok := f.Handle.(py.Object)
		if !ok {
			return nil, marshalErr("foreign handle for %q is not a Python object", f.DeclaredType)
		}
		return pv, nil
	default:
		return nil, marshalErr("%s cannot be marshalled to Python", v.TypeName())
	}
}

// FromPy converts a py.Object returned by the Python executor back into a
// NAAb Value.
func FromPy(obj py.Object, limits Limits) (value.Value, error) {
	v, err := fromPy(obj)
	if err != nil {
		return value.Null(), err
	}
	if err := Guard(v, limits); err != nil {
		return value.Null(), err
	}
	return v, nil
}

func fromPy(obj py.Object) (value.Value, error) {
	switch x := obj.(type) {
	case py.NoneType:
		return value.Null(), nil
	case py.Int:
		return value.Int(int64(x)), nil
	case py.Float:
		return value.Float(float64(x)), nil
	case py.Bool:
		return value.Bool(bool(x)), nil
	case py.String:
		return value.Str(string(x)), nil
	case *py.List:
		elems := make([]value.Value, len(*x))
		for i, item := range *x {
			cv, err := fromPy(item)
			if err != nil {
				return value.Null(), err
			}
			elems[i] = cv
		}
		return value.ListOf(elems), nil
	case py.StringDict:
		entries := make(map[string]value.Value, len(x))
		order := make([]string, 0, len(x))
		for k, item := range x {
			cv, err := fromPy(item)
			if err != nil {
				return value.Null(), err
			}
			entries[k] = cv
			order = append(order, k)
		}
		return value.DictOf(entries, order), nil
	default:
		if obj == nil || obj == py.None {
			return value.Null(), nil
		}
		return value.Null(), marshalErr("cannot marshal Python value of type %T back to NAAb", obj)
	}
}
