package value

import "testing"

func TestEnvironmentGetDefine(t *testing.T) {
	arena := NewArena()
	env := arena.Root()

	if _, ok := env.Get("x"); ok {
		t.Fatalf("expected x to not exist")
	}
	env.Define("x", Int(10))
	got, ok := env.Get("x")
	if !ok || got.AsInt() != 10 {
		t.Fatalf("expected x == 10, got %v ok=%v", got, ok)
	}
}

func TestEnclosedEnvironmentShadowing(t *testing.T) {
	arena := NewArena()
	outer := arena.Root()
	outer.Define("x", Int(10))
	outer.Define("y", Int(5))

	inner := outer.Child()
	if v, ok := inner.Get("x"); !ok || v.AsInt() != 10 {
		t.Fatalf("expected inner to read outer x, got %v ok=%v", v, ok)
	}

	inner.Define("x", Int(99))
	if v, _ := inner.Get("x"); v.AsInt() != 99 {
		t.Fatalf("expected shadowed x == 99, got %v", v)
	}
	if v, _ := outer.Get("x"); v.AsInt() != 10 {
		t.Fatalf("expected outer x unaffected by shadowing, got %v", v)
	}
}

func TestAssignRequiresExistingBinding(t *testing.T) {
	arena := NewArena()
	env := arena.Root()
	if env.Assign("never_bound", Int(1)) {
		t.Fatalf("expected Assign to fail without a prior binding")
	}

	env.Define("bound", Int(1))
	if !env.Assign("bound", Int(2)) {
		t.Fatalf("expected Assign to succeed for an existing binding")
	}
	v, _ := env.Get("bound")
	if v.AsInt() != 2 {
		t.Fatalf("expected bound == 2, got %v", v)
	}
}

func TestAssignMutatesOuterScopeFromInner(t *testing.T) {
	arena := NewArena()
	outer := arena.Root()
	outer.Define("counter", Int(0))

	inner := outer.Child()
	if !inner.Assign("counter", Int(1)) {
		t.Fatalf("expected inner Assign to find the outer binding")
	}
	v, _ := outer.Get("counter")
	if v.AsInt() != 1 {
		t.Fatalf("expected outer counter mutated to 1, got %v", v)
	}
}
