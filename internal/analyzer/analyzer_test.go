package analyzer

import (
	"testing"

	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/parser"
)

func analyze(t *testing.T, src string) []Diagnostic {
	t.Helper()
	l := lexer.New(src)
	prog, errs := parser.ParseProgram(l, "test.naab")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return New().Analyze(prog)
}

func hasKind(diags []Diagnostic, kind naaberr.Kind) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestUndefinedNameSuggestsClosestMatch(t *testing.T) {
	diags := analyze(t, `
main {
	let total = 0
	return totall
}`)
	if !hasKind(diags, naaberr.NameError) {
		t.Fatalf("expected a NameError, got %v", diags)
	}
	found := false
	for _, d := range diags {
		if d.Kind == naaberr.NameError {
			found = true
			if !contains(d.Message, "total") {
				t.Fatalf("expected suggestion mentioning 'total', got %q", d.Message)
			}
		}
	}
	if !found {
		t.Fatalf("expected at least one NameError diagnostic")
	}
}

func TestDuplicateLocalDeclarationInSameScope(t *testing.T) {
	diags := analyze(t, `
main {
	let x = 1
	let x = 2
	return x
}`)
	if !hasKind(diags, naaberr.SyntaxError) {
		t.Fatalf("expected a SyntaxError for duplicate declaration, got %v", diags)
	}
}

func TestShadowingInChildScopeIsAllowed(t *testing.T) {
	diags := analyze(t, `
main {
	let x = 1
	if x > 0 {
		let x = 2
		return x
	}
	return x
}`)
	for _, d := range diags {
		if d.Kind == naaberr.SyntaxError {
			t.Fatalf("shadowing in a nested scope should not be a duplicate-declaration error, got %v", d)
		}
	}
}

func TestAssignmentWithoutPriorBindingIsAnError(t *testing.T) {
	diags := analyze(t, `
main {
	counter = 1
	return counter
}`)
	if !hasKind(diags, naaberr.NameError) {
		t.Fatalf("expected a NameError for assignment to an undeclared name, got %v", diags)
	}
}

func TestLowercaseUserTypeNameIsRejected(t *testing.T) {
	diags := analyze(t, `
struct point {
	x: int
}

main {
	return 0
}`)
	if !hasKind(diags, naaberr.SyntaxError) {
		t.Fatalf("expected a SyntaxError for a non-PascalCase struct name, got %v", diags)
	}
}

func TestNullWithoutAnnotationIsAHardError(t *testing.T) {
	diags := analyze(t, `
main {
	let x = null
	return 0
}`)
	if !hasKind(diags, naaberr.TypeError) {
		t.Fatalf("expected a TypeError for an unannotated null initializer, got %v", diags)
	}
}

func TestNullAssignedToNonNullableParamIsRejected(t *testing.T) {
	diags := analyze(t, `
function greet(name: string = null) {
	return name
}

main {
	return 0
}`)
	if !hasKind(diags, naaberr.NullSafetyError) {
		t.Fatalf("expected a NullSafetyError for a null default on a non-nullable parameter, got %v", diags)
	}
}

func TestNullableParamAcceptsNullDefault(t *testing.T) {
	diags := analyze(t, `
function greet(name: string? = null) {
	return name
}

main {
	return 0
}`)
	if hasKind(diags, naaberr.NullSafetyError) {
		t.Fatalf("did not expect a NullSafetyError for a nullable parameter, got %v", diags)
	}
}

func TestUnusedLocalProducesAdvisoryWarning(t *testing.T) {
	diags := analyze(t, `
main {
	let unused = 42
	return 0
}`)
	found := false
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unused-local warning, got %v", diags)
	}
}

func TestForwardReferenceBetweenFunctionsResolves(t *testing.T) {
	diags := analyze(t, `
function first() {
	return second()
}

function second() {
	return 1
}

main {
	return first()
}`)
	if hasKind(diags, naaberr.NameError) {
		t.Fatalf("expected forward references between top-level functions to resolve, got %v", diags)
	}
}

func TestEnumVariantAccessIsNotAnUndefinedName(t *testing.T) {
	diags := analyze(t, `
enum Shape {
	Circle(float)
	Square
}

main {
	let s = Shape.Circle(1.0)
	return s.payload
}`)
	if hasKind(diags, naaberr.NameError) {
		t.Fatalf("did not expect enum namespace access to be flagged as undefined, got %v", diags)
	}
}

func TestGenericFunctionTypeParamIsNotFlagged(t *testing.T) {
	diags := analyze(t, `
function identity<T>(x: T) -> T {
	return x
}

main {
	return identity(42)
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics for a generic function's own type parameter, got %v", diags)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
