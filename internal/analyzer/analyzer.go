package analyzer

import (
	"fmt"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
)

// Analyzer walks a Program once, accumulating Diagnostics rather than
// stopping at the first problem (§4.3) — analysis never aborts evaluation
// itself; the driver decides whether SeverityError diagnostics should
// block a run.
type Analyzer struct {
	diags  []Diagnostic
	structs map[string]*ast.StructDecl
	enums   map[string]*ast.EnumDecl

	// currentReturnType tracks the enclosing function's declared return
	// type while walking its body, so a bare `return null` can be checked
	// against non-nullability without threading it through every call.
	currentReturnType ast.TypeExpr
}

func New() *Analyzer {
	return &Analyzer{structs: make(map[string]*ast.StructDecl), enums: make(map[string]*ast.EnumDecl)}
}

func (a *Analyzer) report(sev Severity, kind naaberr.Kind, loc ast.SourceLocation, format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{Severity: sev, Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// Analyze runs the full pass and returns every diagnostic found: first
// those of the declaration pass (duplicate names, type-name case, duplicate
// main), then those of the body pass, each in source order.
func (a *Analyzer) Analyze(prog *ast.Program) []Diagnostic {
	root := newScope(nil)
	var mainDecls []*ast.MainDecl

	// Pass 1: hoist every top-level name so forward references between
	// functions/structs/enums/blocks resolve, mirroring the interpreter's
	// own two-stage behavior (all declarations are registered before
	// `main`'s body ever runs, §4.4).
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.StructDecl:
			a.declareTop(root, d.Name.Value, kindStruct, d.Loc())
			if _, ok := checkTypeNameCase(&ast.NamedType{Name: d.Name.Value}); !ok {
				a.report(SeverityError, naaberr.SyntaxError, d.Loc(), "struct name %q must be PascalCase", d.Name.Value)
			}
			a.structs[d.Name.Value] = d
		case *ast.EnumDecl:
			a.declareTop(root, d.Name.Value, kindEnum, d.Loc())
			if _, ok := checkTypeNameCase(&ast.NamedType{Name: d.Name.Value}); !ok {
				a.report(SeverityError, naaberr.SyntaxError, d.Loc(), "enum name %q must be PascalCase", d.Name.Value)
			}
			a.enums[d.Name.Value] = d
		case *ast.FunctionDecl:
			a.declareTop(root, d.Name.Value, kindFunction, d.Loc())
		case *ast.UseDecl:
			alias := d.BlockID
			if d.Alias != nil {
				alias = d.Alias.Value
			}
			a.declareTop(root, alias, kindBlockAlias, d.Loc())
		case *ast.ModuleImportDecl:
			if d.Alias != nil {
				a.declareTop(root, d.Alias.Value, kindBlockAlias, d.Loc())
			}
		case *ast.MainDecl:
			mainDecls = append(mainDecls, d)
		}
	}
	for i, m := range mainDecls {
		if i > 0 {
			a.report(SeverityError, naaberr.SyntaxError, m.Loc(), "duplicate main block")
		}
	}

	// Pass 2: walk every field default / enum discriminant / function body
	// / main body, now that every top-level name is visible.
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.StructDecl:
			a.analyzeStructDecl(d, root)
		case *ast.EnumDecl:
			a.analyzeEnumDecl(d, root)
		case *ast.FunctionDecl:
			a.analyzeFunction(d.TypeParams, d.Params, d.ReturnType, d.Body, root)
		case *ast.MainDecl:
			mainScope := newScope(root)
			a.walkBlockIn(d.Body, mainScope)
		}
	}

	return a.diags
}

func (a *Analyzer) declareTop(sc *scope, name string, kind symbolKind, loc ast.SourceLocation) {
	if _, exists := sc.declareHere(name); exists {
		a.report(SeverityError, naaberr.SyntaxError, loc, "%q is already declared in this scope", name)
		return
	}
	sc.define(&symbol{name: name, kind: kind, loc: loc, used: true})
}

func (a *Analyzer) analyzeStructDecl(d *ast.StructDecl, root *scope) {
	for _, f := range d.Fields {
		if bad, ok := checkTypeNameCase(f.Type); !ok {
			a.report(SeverityError, naaberr.SyntaxError, d.Loc(), "field %q of %s: type name %q must be PascalCase or a built-in", f.Name.Value, d.Name.Value, bad)
		}
		if f.Default != nil {
			if f.Type != nil && !isNullable(f.Type) && isNullLiteral(f.Default) {
				a.report(SeverityError, naaberr.NullSafetyError, d.Loc(), "field %q of %s: default null is not valid for non-nullable type %s", f.Name.Value, d.Name.Value, f.Type.String())
			}
			a.walkExpr(f.Default, root)
		}
	}
}

func (a *Analyzer) analyzeEnumDecl(d *ast.EnumDecl, root *scope) {
	for _, v := range d.Variants {
		if v.PayloadType != nil {
			if bad, ok := checkTypeNameCase(v.PayloadType); !ok {
				a.report(SeverityError, naaberr.SyntaxError, d.Loc(), "variant %s.%s: type name %q must be PascalCase or a built-in", d.Name.Value, v.Tag.Value, bad)
			}
		}
		if v.Discriminant != nil {
			a.walkExpr(v.Discriminant, root)
		}
	}
}

// analyzeFunction handles both FunctionDecl and FunctionLiteral bodies: a
// fresh scope holds the parameters (closures over the enclosing scope),
// with the body itself a further child scope (§4.4 "a compound statement
// creates a child environment").
func (a *Analyzer) analyzeFunction(typeParams []*ast.Identifier, params []ast.Param, retType ast.TypeExpr, body *ast.BlockStatement, enclosing *scope) {
	fnScope := newScope(enclosing)
	for _, tp := range typeParams {
		fnScope.define(&symbol{name: tp.Value, kind: kindStruct, loc: tp.Loc(), used: true})
	}
	for _, p := range params {
		if bad, ok := checkTypeNameCase(p.Type); !ok {
			a.report(SeverityError, naaberr.SyntaxError, p.Name.Loc(), "parameter %q: type name %q must be PascalCase or a built-in", p.Name.Value, bad)
		}
		if p.Default != nil {
			if p.Type != nil && !isNullable(p.Type) && isNullLiteral(p.Default) {
				a.report(SeverityError, naaberr.NullSafetyError, p.Name.Loc(), "parameter %q: default null is not valid for non-nullable type %s", p.Name.Value, p.Type.String())
			}
			a.walkExpr(p.Default, fnScope)
		}
		if _, exists := fnScope.declareHere(p.Name.Value); exists {
			a.report(SeverityError, naaberr.SyntaxError, p.Name.Loc(), "parameter %q is already declared", p.Name.Value)
			continue
		}
		fnScope.define(&symbol{name: p.Name.Value, kind: kindParam, typ: p.Type, loc: p.Name.Loc()})
	}
	if bad, ok := checkTypeNameCase(retType); !ok {
		a.report(SeverityError, naaberr.SyntaxError, body.Loc(), "return type %q must be PascalCase or a built-in", bad)
	}

	savedReturn := a.currentReturnType
	a.currentReturnType = retType
	bodyScope := newScope(fnScope)
	a.walkBlockIn(body, bodyScope)
	a.currentReturnType = savedReturn

	a.reportUnused(fnScope, kindParam, "parameter")
}

// walkBlockIn analyzes every statement of block within the already-created
// scope sc, then reports unused locals declared directly in sc.
func (a *Analyzer) walkBlockIn(block *ast.BlockStatement, sc *scope) {
	for _, stmt := range block.Statements {
		a.walkStmt(stmt, sc)
	}
	a.reportUnused(sc, kindLocal, "local")
}

func (a *Analyzer) reportUnused(sc *scope, kind symbolKind, label string) {
	for name, sym := range sc.symbols {
		if sym.kind == kind && !sym.used {
			a.report(SeverityWarning, naaberr.RuntimeError, sym.loc, "%s %q is declared but never used", label, name)
		}
	}
}

func (a *Analyzer) walkStmt(stmt ast.Statement, sc *scope) {
	switch n := stmt.(type) {
	case *ast.LetStatement:
		if n.Value != nil {
			a.walkExpr(n.Value, sc)
		}
		if n.Type == nil && n.Value != nil && isNullLiteral(n.Value) {
			a.report(SeverityError, naaberr.TypeError, n.Loc(), "cannot infer the type of %q from a null initializer; add an explicit type annotation", n.Name.Value)
		}
		if n.Type != nil {
			if bad, ok := checkTypeNameCase(n.Type); !ok {
				a.report(SeverityError, naaberr.SyntaxError, n.Loc(), "%q: type name %q must be PascalCase or a built-in", n.Name.Value, bad)
			}
			if !isNullable(n.Type) && n.Value != nil && isNullLiteral(n.Value) {
				a.report(SeverityError, naaberr.NullSafetyError, n.Loc(), "cannot assign null to non-nullable %q", n.Name.Value)
			}
		}
		if _, exists := sc.declareHere(n.Name.Value); exists {
			a.report(SeverityError, naaberr.SyntaxError, n.Loc(), "%q is already declared in this scope", n.Name.Value)
			return
		}
		sc.define(&symbol{name: n.Name.Value, kind: kindLocal, typ: n.Type, loc: n.Loc()})

	case *ast.ExpressionStatement:
		if n.Expression != nil {
			a.walkExpr(n.Expression, sc)
		}

	case *ast.ReturnStatement:
		if n.ReturnValue != nil {
			a.walkExpr(n.ReturnValue, sc)
			if a.currentReturnType != nil && !isNullable(a.currentReturnType) && isNullLiteral(n.ReturnValue) {
				a.report(SeverityError, naaberr.NullSafetyError, n.Loc(), "returning null from a function whose return type %s is not nullable", a.currentReturnType.String())
			}
		}

	case *ast.IfStatement:
		a.walkExpr(n.Condition, sc)
		a.walkBlockIn(n.Consequence, newScope(sc))
		if n.Alternative != nil {
			a.walkBlockIn(n.Alternative, newScope(sc))
		}

	case *ast.WhileStatement:
		a.walkExpr(n.Condition, sc)
		a.walkBlockIn(n.Body, newScope(sc))

	case *ast.ForStatement:
		a.walkExpr(n.Iterable, sc)
		loopScope := newScope(sc)
		loopScope.define(&symbol{name: n.Iterator.Value, kind: kindLocal, loc: n.Iterator.Loc()})
		a.walkBlockIn(n.Body, newScope(loopScope))
		a.reportUnused(loopScope, kindLocal, "loop variable")

	case *ast.TryStatement:
		a.walkBlockIn(n.TryBlock, newScope(sc))
		if n.CatchBlock != nil {
			catchScope := newScope(sc)
			if n.CatchName != nil {
				catchScope.define(&symbol{name: n.CatchName.Value, kind: kindLocal, loc: n.CatchName.Loc(), used: true})
			}
			a.walkBlockIn(n.CatchBlock, catchScope)
		}
		if n.FinallyBlock != nil {
			a.walkBlockIn(n.FinallyBlock, newScope(sc))
		}

	case *ast.ThrowStatement:
		a.walkExpr(n.Value, sc)

	case *ast.BlockStatement:
		a.walkBlockIn(n, newScope(sc))
	}
}

func (a *Analyzer) walkExpr(expr ast.Expression, sc *scope) {
	switch n := expr.(type) {
	case *ast.Identifier:
		sym, _ := sc.resolve(n.Value)
		if sym == nil {
			if suggestion, ok := suggest(n.Value, sc.visibleNames()); ok {
				a.report(SeverityError, naaberr.NameError, n.Loc(), "undefined name %q; did you mean %q?", n.Value, suggestion)
			} else {
				a.report(SeverityError, naaberr.NameError, n.Loc(), "undefined name %q", n.Value)
			}
			return
		}
		sym.used = true

	case *ast.ListLiteral:
		for _, e := range n.Elements {
			a.walkExpr(e, sc)
		}

	case *ast.DictLiteral:
		for _, entry := range n.Entries {
			a.walkExpr(entry.Key, sc)
			a.walkExpr(entry.Value, sc)
		}

	case *ast.StructLiteral:
		if _, ok := a.structs[n.Name.Value]; !ok {
			names := make([]string, 0, len(a.structs))
			for name := range a.structs {
				names = append(names, name)
			}
			if suggestion, ok := suggest(n.Name.Value, names); ok {
				a.report(SeverityError, naaberr.NameError, n.Loc(), "unknown struct type %q; did you mean %q?", n.Name.Value, suggestion)
			} else {
				a.report(SeverityError, naaberr.NameError, n.Loc(), "unknown struct type %q", n.Name.Value)
			}
		}
		for _, f := range n.Fields {
			a.walkExpr(f.Value, sc)
		}

	case *ast.UnaryExpression:
		a.walkExpr(n.Right, sc)

	case *ast.BinaryExpression:
		a.walkExpr(n.Left, sc)
		a.walkExpr(n.Right, sc)

	case *ast.AssignExpression:
		a.walkAssignTarget(n.Target, sc)
		a.walkExpr(n.Value, sc)

	case *ast.CallExpression:
		if !a.isEnumVariantAccess(n.Function, sc) {
			a.walkExpr(n.Function, sc)
		}
		for _, arg := range n.Arguments {
			a.walkExpr(arg, sc)
		}

	case *ast.IndexExpression:
		a.walkExpr(n.Left, sc)
		a.walkExpr(n.Index, sc)

	case *ast.MemberExpression:
		if !a.isEnumVariantAccess(n, sc) {
			a.walkExpr(n.Object, sc)
		}

	case *ast.InlineCodeExpression:
		for _, name := range n.Bindings {
			sym, _ := sc.resolve(name)
			if sym == nil {
				a.report(SeverityError, naaberr.NameError, n.Loc(), "inline binding %q is not defined", name)
				continue
			}
			sym.used = true
		}

	case *ast.FunctionLiteral:
		a.analyzeFunction(n.TypeParams, n.Params, n.ReturnType, n.Body, sc)
	}
}

// isEnumVariantAccess mirrors the interpreter's own disambiguation (§4.4
// "member access" vs. enum namespace access): `Type.Variant` or
// `Type.Variant(...)` where Type is a registered enum and not shadowed by
// an in-scope variable is not a name lookup on Type at all.
func (a *Analyzer) isEnumVariantAccess(expr ast.Expression, sc *scope) bool {
	member, ok := expr.(*ast.MemberExpression)
	if !ok {
		return false
	}
	ident, ok := member.Object.(*ast.Identifier)
	if !ok {
		return false
	}
	if sym, _ := sc.resolve(ident.Value); sym != nil {
		return false
	}
	_, isEnum := a.enums[ident.Value]
	return isEnum
}

// walkAssignTarget resolves the lvalue of an assignment without requiring
// `let`-style re-declaration; assigning to an undeclared bare identifier is
// the "assignment without prior binding" error (§4.3).
func (a *Analyzer) walkAssignTarget(target ast.Expression, sc *scope) {
	switch t := target.(type) {
	case *ast.Identifier:
		sym, _ := sc.resolve(t.Value)
		if sym == nil {
			a.report(SeverityError, naaberr.NameError, t.Loc(), "cannot assign to undeclared name %q; use 'let' to declare it first", t.Value)
			return
		}
		sym.used = true
	default:
		a.walkExpr(target, sc)
	}
}
