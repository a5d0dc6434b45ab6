package value

import "testing"

// TestCollectorBreaksSelfCycle builds a struct whose own field points back
// to itself (an unreachable cycle once dropped from the environment) and
// checks that a collection clears its outgoing edge, i.e. that the
// would-be-leaked reference no longer keeps the struct's children alive.
func TestCollectorBreaksSelfCycle(t *testing.T) {
	arena := NewArena()
	env := arena.Root()
	gc := NewCollector(arena)

	node := &StructInstance{TypeName: "Node", FieldOrder: []string{"next"}, Fields: map[string]Value{}}
	self := StructOf(node)
	node.Fields["next"] = self
	gc.Track(self)

	env.Define("n", self)
	env.Assign("n", Null()) // drop the only external reference; cycle remains

	gc.Collect()

	if len(node.Fields) != 0 {
		t.Fatalf("expected collector to break the self-cycle, fields still has %d entries", len(node.Fields))
	}
}

// TestCollectorKeepsReachableValues ensures a collection never drops
// something still bound in a live environment (§8 soundness property).
func TestCollectorKeepsReachableValues(t *testing.T) {
	arena := NewArena()
	env := arena.Root()
	gc := NewCollector(arena)

	list := ListOf([]Value{Int(1), Int(2)})
	gc.Track(list)
	env.Define("l", list)

	gc.Collect()

	got, ok := env.Get("l")
	if !ok || len(got.AsList().Elements) != 2 {
		t.Fatalf("expected reachable list to survive collection, got %v ok=%v", got, ok)
	}
}

func TestCollectorAutoTriggersAtThreshold(t *testing.T) {
	arena := NewArena()
	gc := NewCollector(arena)
	gc.threshold = 3

	for i := 0; i < 3; i++ {
		gc.Track(ListOf(nil))
	}
	_, sinceLast := gc.Stats()
	if sinceLast != 0 {
		t.Fatalf("expected an automatic collection to reset the counter, got %d", sinceLast)
	}
}
