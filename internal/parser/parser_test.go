package parser

import (
	"testing"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	program, errs := ParseProgram(l, "test.naab")
	if len(errs) != 0 {
		t.Fatalf("parser has %d errors: %v", len(errs), errs)
	}
	return program
}

func TestParseMainWithLetAndReturn(t *testing.T) {
	input := `
main {
	let x = 5
	let y: int = 10
	return
}
`
	program := parseProgram(t, input)
	if len(program.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(program.Declarations))
	}
	main, ok := program.Declarations[0].(*ast.MainDecl)
	if !ok {
		t.Fatalf("declaration is not *ast.MainDecl, got %T", program.Declarations[0])
	}
	if len(main.Body.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(main.Body.Statements))
	}
	let1, ok := main.Body.Statements[0].(*ast.LetStatement)
	if !ok || let1.Name.Value != "x" {
		t.Fatalf("statement[0] is not let x, got %#v", main.Body.Statements[0])
	}
	let2, ok := main.Body.Statements[1].(*ast.LetStatement)
	if !ok || let2.Type == nil || let2.Type.String() != "int" {
		t.Fatalf("statement[1] expected typed let y: int, got %#v", main.Body.Statements[1])
	}
	if _, ok := main.Body.Statements[2].(*ast.ReturnStatement); !ok {
		t.Fatalf("statement[2] is not *ast.ReturnStatement, got %#v", main.Body.Statements[2])
	}
}

func TestParseFunctionDeclWithParamsAndReturnType(t *testing.T) {
	input := `
function add(a: int, b: int = 2) -> int {
	return a + b
}
`
	program := parseProgram(t, input)
	fn, ok := program.Declarations[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("declaration is not *ast.FunctionDecl, got %T", program.Declarations[0])
	}
	if fn.Name.Value != "add" {
		t.Fatalf("expected name add, got %s", fn.Name.Value)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[1].Default == nil {
		t.Fatalf("expected param b to have a default")
	}
	if fn.ReturnType == nil || fn.ReturnType.String() != "int" {
		t.Fatalf("expected return type int, got %v", fn.ReturnType)
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("body statement is not return, got %#v", fn.Body.Statements[0])
	}
	bin, ok := ret.ReturnValue.(*ast.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected a+b, got %#v", ret.ReturnValue)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a * b + c", "((a * b) + c)"},
		{"a < b == c < d", "((a < b) == (c < d))"},
		{"a && b || c", "((a && b) || c)"},
		{"-a * b", "((-a) * b)"},
		{"!a", "(!a)"},
	}
	for _, tt := range tests {
		program := parseProgram(t, "main {\n"+tt.input+"\n}")
		main := program.Declarations[0].(*ast.MainDecl)
		stmt := main.Body.Statements[0].(*ast.ExpressionStatement)
		if got := stmt.Expression.String(); got != tt.want {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	program := parseProgram(t, "main {\nx = y = 5\n}")
	main := program.Declarations[0].(*ast.MainDecl)
	stmt := main.Body.Statements[0].(*ast.ExpressionStatement)
	outer, ok := stmt.Expression.(*ast.AssignExpression)
	if !ok {
		t.Fatalf("expected outer AssignExpression, got %#v", stmt.Expression)
	}
	if outer.Target.String() != "x" {
		t.Fatalf("expected outer target x, got %s", outer.Target.String())
	}
	inner, ok := outer.Value.(*ast.AssignExpression)
	if !ok {
		t.Fatalf("expected nested AssignExpression for y = 5, got %#v", outer.Value)
	}
	if inner.Target.String() != "y" {
		t.Fatalf("expected inner target y, got %s", inner.Target.String())
	}
}

func TestParseCallIndexMember(t *testing.T) {
	program := parseProgram(t, "main {\nf(1, 2).field[0]\n}")
	main := program.Declarations[0].(*ast.MainDecl)
	stmt := main.Body.Statements[0].(*ast.ExpressionStatement)
	idx, ok := stmt.Expression.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expected outer IndexExpression, got %#v", stmt.Expression)
	}
	member, ok := idx.Left.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected MemberExpression, got %#v", idx.Left)
	}
	if member.Field.Value != "field" {
		t.Fatalf("expected field 'field', got %s", member.Field.Value)
	}
	call, ok := member.Object.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %#v", member.Object)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Arguments))
	}
}

func TestParseStructLiteralBareForm(t *testing.T) {
	program := parseProgram(t, "main {\nlet p = Point { x: 1, y: 2 }\n}")
	main := program.Declarations[0].(*ast.MainDecl)
	let := main.Body.Statements[0].(*ast.LetStatement)
	lit, ok := let.Value.(*ast.StructLiteral)
	if !ok {
		t.Fatalf("expected StructLiteral, got %#v", let.Value)
	}
	if lit.Name.Value != "Point" {
		t.Fatalf("expected struct name Point, got %s", lit.Name.Value)
	}
	if len(lit.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(lit.Fields))
	}
}

func TestParseStructDecl(t *testing.T) {
	input := `
struct Point {
	x: int,
	y: int = 0
}
`
	program := parseProgram(t, input)
	decl, ok := program.Declarations[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected StructDecl, got %T", program.Declarations[0])
	}
	if len(decl.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(decl.Fields))
	}
	if decl.Fields[1].Default == nil {
		t.Fatalf("expected field y to have a default")
	}
}

func TestParseEnumDeclWithPayloadAndDiscriminant(t *testing.T) {
	input := `
enum Result {
	Ok(int),
	Err(string) = 1
}
`
	program := parseProgram(t, input)
	decl, ok := program.Declarations[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected EnumDecl, got %T", program.Declarations[0])
	}
	if len(decl.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(decl.Variants))
	}
	if decl.Variants[0].PayloadType == nil || decl.Variants[0].PayloadType.String() != "int" {
		t.Fatalf("expected Ok(int), got %#v", decl.Variants[0].PayloadType)
	}
	if decl.Variants[1].Discriminant == nil {
		t.Fatalf("expected Err to carry a discriminant")
	}
}

func TestParseUseBlockImport(t *testing.T) {
	program := parseProgram(t, "use BLOCK-CPP-MATH01 as math")
	decl, ok := program.Declarations[0].(*ast.UseDecl)
	if !ok {
		t.Fatalf("expected UseDecl, got %T", program.Declarations[0])
	}
	if decl.BlockID != "BLOCK-CPP-MATH01" {
		t.Fatalf("expected block id BLOCK-CPP-MATH01, got %s", decl.BlockID)
	}
	if decl.Alias == nil || decl.Alias.Value != "math" {
		t.Fatalf("expected alias math, got %#v", decl.Alias)
	}
}

func TestParseUseModuleImport(t *testing.T) {
	program := parseProgram(t, "use collections.list as list")
	decl, ok := program.Declarations[0].(*ast.ModuleImportDecl)
	if !ok {
		t.Fatalf("expected ModuleImportDecl, got %T", program.Declarations[0])
	}
	if decl.ModulePath != "collections.list" {
		t.Fatalf("expected module path collections.list, got %s", decl.ModulePath)
	}
}

func TestParseIfElseIfElse(t *testing.T) {
	input := `
main {
	if a {
		let x = 1
	} else if b {
		let x = 2
	} else {
		let x = 3
	}
}
`
	program := parseProgram(t, input)
	main := program.Declarations[0].(*ast.MainDecl)
	ifStmt, ok := main.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", main.Body.Statements[0])
	}
	if ifStmt.Alternative == nil {
		t.Fatalf("expected an else-if alternative")
	}
	nested, ok := ifStmt.Alternative.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected nested IfStatement for else-if, got %#v", ifStmt.Alternative.Statements[0])
	}
	if nested.Alternative == nil {
		t.Fatalf("expected final else block")
	}
}

func TestParseWhileAndFor(t *testing.T) {
	input := `
main {
	while x < 10 {
		x = x + 1
	}
	for item in items {
		let y = item
	}
}
`
	program := parseProgram(t, input)
	main := program.Declarations[0].(*ast.MainDecl)
	if _, ok := main.Body.Statements[0].(*ast.WhileStatement); !ok {
		t.Fatalf("expected WhileStatement, got %T", main.Body.Statements[0])
	}
	forStmt, ok := main.Body.Statements[1].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %T", main.Body.Statements[1])
	}
	if forStmt.Iterator.Value != "item" {
		t.Fatalf("expected iterator item, got %s", forStmt.Iterator.Value)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	input := `
main {
	try {
		let x = 1
	} catch (e) {
		let y = 2
	} finally {
		let z = 3
	}
}
`
	program := parseProgram(t, input)
	main := program.Declarations[0].(*ast.MainDecl)
	tryStmt, ok := main.Body.Statements[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected TryStatement, got %T", main.Body.Statements[0])
	}
	if tryStmt.CatchName == nil || tryStmt.CatchName.Value != "e" {
		t.Fatalf("expected catch binding e, got %#v", tryStmt.CatchName)
	}
	if tryStmt.FinallyBlock == nil {
		t.Fatalf("expected a finally block")
	}
}

func TestParseTryFinallyWithoutCatch(t *testing.T) {
	// Open Question #2: finally is permitted without catch.
	input := `
main {
	try {
		let x = 1
	} finally {
		let z = 3
	}
}
`
	program := parseProgram(t, input)
	main := program.Declarations[0].(*ast.MainDecl)
	tryStmt, ok := main.Body.Statements[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected TryStatement, got %T", main.Body.Statements[0])
	}
	if tryStmt.CatchBlock != nil {
		t.Fatalf("expected no catch block")
	}
	if tryStmt.FinallyBlock == nil {
		t.Fatalf("expected a finally block")
	}
}

func TestParseThrowStatement(t *testing.T) {
	program := parseProgram(t, `main {
	throw "boom"
}`)
	main := program.Declarations[0].(*ast.MainDecl)
	throwStmt, ok := main.Body.Statements[0].(*ast.ThrowStatement)
	if !ok {
		t.Fatalf("expected ThrowStatement, got %T", main.Body.Statements[0])
	}
	if throwStmt.Value.String() != `"boom"` {
		t.Fatalf("expected thrown value \"boom\", got %s", throwStmt.Value.String())
	}
}

func TestParsePipelineExpression(t *testing.T) {
	program := parseProgram(t, "main {\nlet r = x |> f |> g\n}")
	main := program.Declarations[0].(*ast.MainDecl)
	let := main.Body.Statements[0].(*ast.LetStatement)
	bin, ok := let.Value.(*ast.BinaryExpression)
	if !ok || bin.Operator != "|>" {
		t.Fatalf("expected outer pipeline, got %#v", let.Value)
	}
}

func TestParsePipelineContinuesAcrossNewline(t *testing.T) {
	// §9: "|>" at the start of a line continues the previous expression.
	program := parseProgram(t, "main {\nlet r = x\n|> f\n}")
	main := program.Declarations[0].(*ast.MainDecl)
	let := main.Body.Statements[0].(*ast.LetStatement)
	bin, ok := let.Value.(*ast.BinaryExpression)
	if !ok || bin.Operator != "|>" {
		t.Fatalf("expected pipeline expression spanning the newline, got %#v", let.Value)
	}
}

func TestParseInlineCodeExpression(t *testing.T) {
	program := parseProgram(t, `main {
	let r = <<python[x] x + 1 >>
}`)
	main := program.Declarations[0].(*ast.MainDecl)
	let := main.Body.Statements[0].(*ast.LetStatement)
	inline, ok := let.Value.(*ast.InlineCodeExpression)
	if !ok {
		t.Fatalf("expected InlineCodeExpression, got %#v", let.Value)
	}
	if inline.Language != "python" {
		t.Fatalf("expected language python, got %s", inline.Language)
	}
	if len(inline.Bindings) != 1 || inline.Bindings[0] != "x" {
		t.Fatalf("expected bindings [x], got %v", inline.Bindings)
	}
}

func TestParseNullableAndUnionTypes(t *testing.T) {
	input := `
function f(a: int?, b: int | string) -> void {
	return
}
`
	program := parseProgram(t, input)
	fn := program.Declarations[0].(*ast.FunctionDecl)
	if _, ok := fn.Params[0].Type.(*ast.NullableType); !ok {
		t.Fatalf("expected NullableType for a, got %#v", fn.Params[0].Type)
	}
	if _, ok := fn.Params[1].Type.(*ast.UnionType); !ok {
		t.Fatalf("expected UnionType for b, got %#v", fn.Params[1].Type)
	}
}

func TestParseGenericStructAndType(t *testing.T) {
	input := `
struct Box<T> {
	value: T
}
`
	program := parseProgram(t, input)
	decl := program.Declarations[0].(*ast.StructDecl)
	if len(decl.TypeParams) != 1 || decl.TypeParams[0].Value != "T" {
		t.Fatalf("expected type param T, got %#v", decl.TypeParams)
	}
	if decl.Fields[0].Type.String() != "T" {
		t.Fatalf("expected field value: T, got %s", decl.Fields[0].Type.String())
	}
}

func TestParseListAndDictLiterals(t *testing.T) {
	program := parseProgram(t, `main {
	let a = [1, 2, 3]
	let b = { "x": 1, "y": 2 }
}`)
	main := program.Declarations[0].(*ast.MainDecl)
	list := main.Body.Statements[0].(*ast.LetStatement).Value.(*ast.ListLiteral)
	if len(list.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(list.Elements))
	}
	dict := main.Body.Statements[1].(*ast.LetStatement).Value.(*ast.DictLiteral)
	if len(dict.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dict.Entries))
	}
}

func TestParseRefParam(t *testing.T) {
	input := `
function swap(ref a: int, ref b: int) -> void {
	return
}
`
	program := parseProgram(t, input)
	fn := program.Declarations[0].(*ast.FunctionDecl)
	if !fn.Params[0].IsRef || !fn.Params[1].IsRef {
		t.Fatalf("expected both params to be ref, got %#v", fn.Params)
	}
}
