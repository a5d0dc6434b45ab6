package value

import "sync/atomic"

// Retain increments the refcount of v's heap payload, if any. Scalars
// (null/int/float/bool/string) are copied by value and need no counting.
func (v Value) Retain() Value {
	switch v.Kind {
	case KindList:
		atomic.AddInt32(&v.list.refs, 1)
	case KindDict:
		atomic.AddInt32(&v.dict.refs, 1)
	case KindStruct:
		atomic.AddInt32(&v.strct.refs, 1)
	case KindEnum:
		atomic.AddInt32(&v.enum.refs, 1)
	case KindFunction:
		atomic.AddInt32(&v.fn.refs, 1)
	case KindForeign:
		atomic.AddInt32(&v.foreign.refs, 1)
	case KindError:
		atomic.AddInt32(&v.errv.refs, 1)
	}
	return v
}

// Release decrements the refcount of v's heap payload; at zero it drops
// the payload's owned children recursively (§4.5: "zero triggers
// destruction which recursively drops owned children").
func (v Value) Release() {
	switch v.Kind {
	case KindList:
		if atomic.AddInt32(&v.list.refs, -1) == 0 {
			for _, e := range v.list.Elements {
				e.Release()
			}
		}
	case KindDict:
		if atomic.AddInt32(&v.dict.refs, -1) == 0 {
			for _, e := range v.dict.Entries {
				e.Release()
			}
		}
	case KindStruct:
		if atomic.AddInt32(&v.strct.refs, -1) == 0 {
			for _, e := range v.strct.Fields {
				e.Release()
			}
		}
	case KindEnum:
		if atomic.AddInt32(&v.enum.refs, -1) == 0 && v.enum.Payload != nil {
			v.enum.Payload.Release()
		}
	case KindFunction:
		atomic.AddInt32(&v.fn.refs, -1)
	case KindForeign:
		if atomic.AddInt32(&v.foreign.refs, -1) == 0 {
			// The owning executor is responsible for releasing Handle;
			// the value package only owns the refcount bookkeeping.
		}
	case KindError:
		if atomic.AddInt32(&v.errv.refs, -1) == 0 && v.errv.Payload != nil {
			v.errv.Payload.Release()
		}
	}
}

// children returns the direct Value children of a heap payload, used by
// the cycle collector's mark phase. Scalars and nil payloads return nil.
func (v Value) children() []Value {
	switch v.Kind {
	case KindList:
		return v.list.Elements
	case KindDict:
		out := make([]Value, 0, len(v.dict.Entries))
		for _, e := range v.dict.Entries {
			out = append(out, e)
		}
		return out
	case KindStruct:
		out := make([]Value, 0, len(v.strct.Fields))
		for _, e := range v.strct.Fields {
			out = append(out, e)
		}
		return out
	case KindEnum:
		if v.enum.Payload != nil {
			return []Value{*v.enum.Payload}
		}
	case KindError:
		if v.errv.Payload != nil {
			return []Value{*v.errv.Payload}
		}
	}
	return nil
}

// heapPtr returns a stable identity for v's heap payload (nil for
// scalars), used as the mark-set key.
func (v Value) heapPtr() any {
	switch v.Kind {
	case KindList:
		return v.list
	case KindDict:
		return v.dict
	case KindStruct:
		return v.strct
	case KindEnum:
		return v.enum
	case KindFunction:
		return v.fn
	case KindForeign:
		return v.foreign
	case KindError:
		return v.errv
	default:
		return nil
	}
}
