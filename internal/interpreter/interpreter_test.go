package interpreter

import (
	"strings"
	"testing"

	"github.com/naab-lang/naab/internal/config"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/parser"
	"github.com/naab-lang/naab/internal/value"
)

func testConfig() *config.Config {
	return &config.Config{MaxStackDepth: 1000, GCAllocThreshold: 10000}
}

func run(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	l := lexer.New(src)
	prog, errs := parser.ParseProgram(l, "test.naab")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	ip := New(testConfig())
	return ip.Run(prog)
}

func TestArithmeticAndMain(t *testing.T) {
	v, err := run(t, `
main {
	let x = 2 + 3 * 4
	return x
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != value.KindInt || v.AsInt() != 14 {
		t.Fatalf("expected 14, got %v", v.Inspect())
	}
}

func TestIfWhileFor(t *testing.T) {
	v, err := run(t, `
main {
	let total = 0
	let i = 0
	while i < 5 {
		total = total + i
		i = i + 1
	}
	for n in [10, 20, 30] {
		total = total + n
	}
	if total > 0 {
		return total
	}
	return 0
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsInt() != 70 {
		t.Fatalf("expected 70, got %v", v.Inspect())
	}
}

func TestFunctionClosureAndDefault(t *testing.T) {
	v, err := run(t, `
function adder(base: int) {
	return function(amount: int = 1) {
		return base + amount
	}
}

main {
	let add5 = adder(5)
	return add5()
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsInt() != 6 {
		t.Fatalf("expected 6, got %v", v.Inspect())
	}
}

func TestStructLiteralAndFieldAccess(t *testing.T) {
	v, err := run(t, `
struct Point {
	x: int
	y: int = 0
}

main {
	let p = Point { x: 3 }
	return p.x + p.y
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsInt() != 3 {
		t.Fatalf("expected 3, got %v", v.Inspect())
	}
}

func TestEnumVariantConstructionAndPayload(t *testing.T) {
	v, err := run(t, `
enum Shape {
	Circle(float)
	Square
}

main {
	let s = Shape.Circle(2.5)
	return s.payload
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != value.KindFloat || v.AsFloat() != 2.5 {
		t.Fatalf("expected 2.5, got %v", v.Inspect())
	}
}

func TestTryCatchBindsCaughtValueAndRuns(t *testing.T) {
	v, err := run(t, `
main {
	let result = 0
	try {
		throw "boom"
	} catch (e) {
		if e == "boom" {
			result = 1
		}
	}
	return result
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsInt() != 1 {
		t.Fatalf("expected catch to run and bind the thrown value, got %v", v.Inspect())
	}
}

func TestFinallyAlwaysRunsOnNormalExit(t *testing.T) {
	v, err := run(t, `
main {
	let ran = 0
	try {
		let x = 1
	} finally {
		ran = 1
	}
	return ran
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsInt() != 1 {
		t.Fatalf("expected finally to run without a catch present, got %v", v.Inspect())
	}
}

func TestFinallyAlwaysRunsOnThrowAndRethrows(t *testing.T) {
	_, err := run(t, `
main {
	try {
		throw "nope"
	} finally {
		let noop = 0
	}
	return 0
}`)
	if err == nil {
		t.Fatalf("expected the uncaught throw to propagate past finally")
	}
}

func TestFinallyThrowSupersedesPendingException(t *testing.T) {
	_, err := run(t, `
main {
	try {
		throw "first"
	} finally {
		throw "second"
	}
	return 0
}`)
	if err == nil {
		t.Fatalf("expected finally's throw to propagate")
	}
	if got := err.Error(); !strings.Contains(got, "second") {
		t.Fatalf("expected finally's throw (\"second\") to supersede the pending one, got %q", got)
	}
}

func TestRefParameterWritesBackToCaller(t *testing.T) {
	v, err := run(t, `
function increment(ref n: int) {
	n = n + 1
}

main {
	let counter = 10
	increment(counter)
	return counter
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsInt() != 11 {
		t.Fatalf("expected ref write-back to mutate caller's binding, got %v", v.Inspect())
	}
}

func TestPipelineDesugarsToCall(t *testing.T) {
	v, err := run(t, `
function double(x: int) {
	return x * 2
}

main {
	return 5 |> double
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsInt() != 10 {
		t.Fatalf("expected 10, got %v", v.Inspect())
	}
}

func TestUndefinedNameRaisesNameError(t *testing.T) {
	_, err := run(t, `
main {
	return missing
}`)
	if !naaberr.IsKind(err, naaberr.NameError) {
		t.Fatalf("expected a NameError for an undefined identifier, got %v", err)
	}
}

func TestDivisionByZeroRaisesRuntimeError(t *testing.T) {
	_, err := run(t, `
main {
	let x = 1 / 0
	return x
}`)
	if !naaberr.IsKind(err, naaberr.RuntimeError) {
		t.Fatalf("expected division by zero to raise a RuntimeError, got %v", err)
	}
}

// TestGenericFunctionAcceptsAnyArgumentType exercises identity<T>(x: T) -> T
// called with no explicit type argument: the parameter and return
// constraints must accept whatever concrete type flows through T instead
// of only a struct/enum/foreign value literally named "T".
func TestGenericFunctionAcceptsAnyArgumentType(t *testing.T) {
	v, err := run(t, `
function identity<T>(x: T) -> T {
	return x
}

main {
	let a = identity(42)
	let b = identity("hi")
	return [a, b]
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elems := v.AsList().Elements
	if len(elems) != 2 {
		t.Fatalf("expected 2 results, got %d", len(elems))
	}
	if elems[0].Kind != value.KindInt || elems[0].AsInt() != 42 {
		t.Fatalf("expected identity(42) == 42, got %v", elems[0].Inspect())
	}
	if elems[1].Kind != value.KindString || elems[1].AsString() != "hi" {
		t.Fatalf(`expected identity("hi") == "hi", got %v`, elems[1].Inspect())
	}
}
