package naaberr

import "testing"

func TestFormatTraceDeduplicatesConsecutiveFrames(t *testing.T) {
	e := New(RuntimeError, "main.naab", 4, 1, "recursion limit exceeded")
	e.PushFrame(StackFrame{Function: "f", File: "main.naab", Line: 2})
	e.PushFrame(StackFrame{Function: "f", File: "main.naab", Line: 2})
	e.PushFrame(StackFrame{Function: "g", File: "main.naab", Line: 1})

	out := e.FormatTrace()
	want := "RuntimeError: recursion limit exceeded\n  at f (main.naab:2)\n  at g (main.naab:1)\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestIsKind(t *testing.T) {
	e := New(NullSafetyError, "main.naab", 1, 1, "null assigned to non-nullable slot")
	if !IsKind(e, NullSafetyError) {
		t.Fatal("expected IsKind to match")
	}
	if IsKind(e, TypeError) {
		t.Fatal("expected IsKind to not match a different kind")
	}
}
