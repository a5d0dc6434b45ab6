// Package ast defines the typed abstract syntax tree produced by the
// parser. Every node is a sealed member of one of four families —
// expressions, statements, declarations, and type expressions — and
// carries a SourceLocation for diagnostics and stack traces (§3).
//
// The node shapes mirror the teacher's ast package (Identifier, literals,
// prefix/infix expressions, block/if/return statements each with a String()
// for debug printing) generalized to NAAb's richer grammar: struct/enum/
// function declarations, generics, nullable and union types, block imports,
// and inline foreign-code expressions.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/naab-lang/naab/internal/token"
)

// SourceLocation identifies where a node began in its source file.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Node is the root interface every AST node implements.
type Node interface {
	Loc() SourceLocation
	String() string
}

// Expression is any node that evaluates to a Value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node executed for effect.
type Statement interface {
	Node
	statementNode()
}

// Declaration is a top-level or main-body declaration.
type Declaration interface {
	Node
	declarationNode()
}

// TypeExpr is a type-expression node (§4.2 "Type expressions").
type TypeExpr interface {
	Node
	typeExprNode()
}

func loc(t token.Token, file string) SourceLocation {
	return SourceLocation{File: file, Line: t.Line, Column: t.Column}
}

// ----------------------------------------------------------------------
// Program
// ----------------------------------------------------------------------

// Program is the root node: a sequence of top-level declarations.
type Program struct {
	Declarations []Declaration
}

func (p *Program) Loc() SourceLocation { return SourceLocation{} }
func (p *Program) String() string {
	var out bytes.Buffer
	for _, d := range p.Declarations {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ----------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------

type Identifier struct {
	Token token.Token
	File  string
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) Loc() SourceLocation  { return loc(i.Token, i.File) }
func (i *Identifier) String() string       { return i.Value }

type IntegerLiteral struct {
	Token token.Token
	File  string
	Value int64
}

func (n *IntegerLiteral) expressionNode()     {}
func (n *IntegerLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *IntegerLiteral) String() string      { return fmt.Sprintf("%d", n.Value) }

type FloatLiteral struct {
	Token token.Token
	File  string
	Value float64
}

func (n *FloatLiteral) expressionNode()     {}
func (n *FloatLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *FloatLiteral) String() string      { return fmt.Sprintf("%g", n.Value) }

type StringLiteral struct {
	Token token.Token
	File  string
	Value string
}

func (n *StringLiteral) expressionNode()     {}
func (n *StringLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *StringLiteral) String() string      { return fmt.Sprintf("%q", n.Value) }

type BooleanLiteral struct {
	Token token.Token
	File  string
	Value bool
}

func (n *BooleanLiteral) expressionNode()     {}
func (n *BooleanLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *BooleanLiteral) String() string      { return fmt.Sprintf("%t", n.Value) }

type NullLiteral struct {
	Token token.Token
	File  string
}

func (n *NullLiteral) expressionNode()     {}
func (n *NullLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *NullLiteral) String() string      { return "null" }

type ListLiteral struct {
	Token    token.Token
	File     string
	Elements []Expression
}

func (n *ListLiteral) expressionNode()     {}
func (n *ListLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *ListLiteral) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type DictEntry struct {
	Key   Expression
	Value Expression
}

type DictLiteral struct {
	Token   token.Token
	File    string
	Entries []DictEntry
}

func (n *DictLiteral) expressionNode()     {}
func (n *DictLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *DictLiteral) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// StructFieldInit is one `field: expr` entry of a struct literal.
type StructFieldInit struct {
	Name  *Identifier
	Value Expression
}

// StructLiteral is a bare `Name { field: expr, ... }` (Open Question #1:
// this implementation does not require a `new` keyword, §9).
type StructLiteral struct {
	Token  token.Token
	File   string
	Name   *Identifier // possibly module-qualified at analysis time
	Fields []StructFieldInit
}

func (n *StructLiteral) expressionNode()     {}
func (n *StructLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *StructLiteral) String() string {
	parts := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		parts[i] = f.Name.Value + ": " + f.Value.String()
	}
	return n.Name.Value + " {" + strings.Join(parts, ", ") + "}"
}

type UnaryExpression struct {
	Token    token.Token
	File     string
	Operator string
	Right    Expression
}

func (n *UnaryExpression) expressionNode()     {}
func (n *UnaryExpression) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *UnaryExpression) String() string {
	return "(" + n.Operator + n.Right.String() + ")"
}

type BinaryExpression struct {
	Token    token.Token
	File     string
	Left     Expression
	Operator string
	Right    Expression
}

func (n *BinaryExpression) expressionNode()     {}
func (n *BinaryExpression) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Operator, n.Right.String())
}

// AssignExpression is `target = value`, right-associative, lowest
// precedence expression form (§4.2).
type AssignExpression struct {
	Token  token.Token
	File   string
	Target Expression
	Value  Expression
}

func (n *AssignExpression) expressionNode()     {}
func (n *AssignExpression) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *AssignExpression) String() string {
	return fmt.Sprintf("%s = %s", n.Target.String(), n.Value.String())
}

type CallExpression struct {
	Token     token.Token
	File      string
	Function  Expression
	Arguments []Expression
	TypeArgs  []TypeExpr // explicit generic type arguments, may be empty
}

func (n *CallExpression) expressionNode()     {}
func (n *CallExpression) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *CallExpression) String() string {
	parts := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Function.String(), strings.Join(parts, ", "))
}

type IndexExpression struct {
	Token token.Token
	File  string
	Left  Expression
	Index Expression
}

func (n *IndexExpression) expressionNode()     {}
func (n *IndexExpression) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *IndexExpression) String() string {
	return fmt.Sprintf("(%s[%s])", n.Left.String(), n.Index.String())
}

// MemberExpression is `obj.field`: struct field, enum payload, or foreign
// object attribute depending on the runtime type of obj (§4.4).
type MemberExpression struct {
	Token  token.Token
	File   string
	Object Expression
	Field  *Identifier
}

func (n *MemberExpression) expressionNode()     {}
func (n *MemberExpression) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *MemberExpression) String() string {
	return n.Object.String() + "." + n.Field.Value
}

// InlineCodeExpression is the `<<lang[bindings] body >>` expression form
// (§4.1, §4.4, §6).
type InlineCodeExpression struct {
	Token    token.Token
	File     string
	Language string
	Bindings []string
	Body     string
}

func (n *InlineCodeExpression) expressionNode()     {}
func (n *InlineCodeExpression) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *InlineCodeExpression) String() string {
	return fmt.Sprintf("<<%s[%s] ... >>", n.Language, strings.Join(n.Bindings, ", "))
}

// ----------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------

type BlockStatement struct {
	Token      token.Token
	File       string
	Statements []Statement
}

func (n *BlockStatement) statementNode()      {}
func (n *BlockStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *BlockStatement) String() string {
	var out bytes.Buffer
	for _, s := range n.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

type LetStatement struct {
	Token       token.Token
	File        string
	Name        *Identifier
	Type        TypeExpr // nil if omitted (inferred, §4.3)
	Value       Expression
}

func (n *LetStatement) statementNode()      {}
func (n *LetStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *LetStatement) String() string {
	if n.Value == nil {
		return "let " + n.Name.Value
	}
	return "let " + n.Name.Value + " = " + n.Value.String()
}

type ExpressionStatement struct {
	Token      token.Token
	File       string
	Expression Expression
}

func (n *ExpressionStatement) statementNode()      {}
func (n *ExpressionStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *ExpressionStatement) String() string {
	if n.Expression == nil {
		return ""
	}
	return n.Expression.String()
}

type ReturnStatement struct {
	Token       token.Token
	File        string
	ReturnValue Expression // nil for bare `return`
}

func (n *ReturnStatement) statementNode()      {}
func (n *ReturnStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *ReturnStatement) String() string {
	if n.ReturnValue == nil {
		return "return"
	}
	return "return " + n.ReturnValue.String()
}

type IfStatement struct {
	Token       token.Token
	File        string
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil if no else
}

func (n *IfStatement) statementNode()      {}
func (n *IfStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *IfStatement) String() string {
	s := "if " + n.Condition.String() + " { " + n.Consequence.String() + " }"
	if n.Alternative != nil {
		s += " else { " + n.Alternative.String() + " }"
	}
	return s
}

type WhileStatement struct {
	Token     token.Token
	File      string
	Condition Expression
	Body      *BlockStatement
}

func (n *WhileStatement) statementNode()      {}
func (n *WhileStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *WhileStatement) String() string {
	return "while " + n.Condition.String() + " { " + n.Body.String() + " }"
}

type ForStatement struct {
	Token    token.Token
	File     string
	Iterator *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (n *ForStatement) statementNode()      {}
func (n *ForStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *ForStatement) String() string {
	return "for " + n.Iterator.Value + " in " + n.Iterable.String() + " { " + n.Body.String() + " }"
}

type TryStatement struct {
	Token        token.Token
	File         string
	TryBlock     *BlockStatement
	CatchName    *Identifier // nil if no catch
	CatchBlock   *BlockStatement
	FinallyBlock *BlockStatement // nil if no finally
}

func (n *TryStatement) statementNode()      {}
func (n *TryStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *TryStatement) String() string {
	s := "try { " + n.TryBlock.String() + " }"
	if n.CatchBlock != nil {
		s += " catch (" + n.CatchName.Value + ") { " + n.CatchBlock.String() + " }"
	}
	if n.FinallyBlock != nil {
		s += " finally { " + n.FinallyBlock.String() + " }"
	}
	return s
}

type ThrowStatement struct {
	Token token.Token
	File  string
	Value Expression
}

func (n *ThrowStatement) statementNode()      {}
func (n *ThrowStatement) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *ThrowStatement) String() string      { return "throw " + n.Value.String() }

// ----------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------

// Param is one function parameter: `name: Type = default`, `ref` optional.
type Param struct {
	Name    *Identifier
	Type    TypeExpr // nil if omitted
	Default Expression
	IsRef   bool
}

type FunctionDecl struct {
	Token      token.Token
	File       string
	Name       *Identifier
	TypeParams []*Identifier
	Params     []Param
	ReturnType TypeExpr // nil if omitted (inferred, §4.3)
	Body       *BlockStatement
}

func (n *FunctionDecl) declarationNode()   {}
func (n *FunctionDecl) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *FunctionDecl) String() string {
	parts := make([]string, len(n.Params))
	for i, p := range n.Params {
		parts[i] = p.Name.Value
	}
	return "function " + n.Name.Value + "(" + strings.Join(parts, ", ") + ") { ... }"
}

type FunctionLiteral struct {
	Token      token.Token
	File       string
	TypeParams []*Identifier
	Params     []Param
	ReturnType TypeExpr
	Body       *BlockStatement
}

func (n *FunctionLiteral) expressionNode()     {}
func (n *FunctionLiteral) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *FunctionLiteral) String() string      { return "function(...) { ... }" }

// StructField is one ordered field of a struct declaration.
type StructField struct {
	Name    *Identifier
	Type    TypeExpr
	Default Expression // nil if none
}

type StructDecl struct {
	Token      token.Token
	File       string
	Name       *Identifier
	TypeParams []*Identifier
	Fields     []StructField
}

func (n *StructDecl) declarationNode()   {}
func (n *StructDecl) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *StructDecl) String() string     { return "struct " + n.Name.Value + " { ... }" }

// EnumVariant is one `Tag (payloadType)? (= discriminant)?` entry.
type EnumVariant struct {
	Tag         *Identifier
	PayloadType TypeExpr   // nil if no payload
	Discriminant Expression // nil if none
}

type EnumDecl struct {
	Token    token.Token
	File     string
	Name     *Identifier
	Variants []EnumVariant
}

func (n *EnumDecl) declarationNode()   {}
func (n *EnumDecl) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *EnumDecl) String() string     { return "enum " + n.Name.Value + " { ... }" }

// UseDecl is `use BLOCK-... as alias` (block import, §4.2, §4.6).
type UseDecl struct {
	Token   token.Token
	File    string
	BlockID string
	Alias   *Identifier // nil if no "as", defaults at analysis time
}

func (n *UseDecl) declarationNode()   {}
func (n *UseDecl) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *UseDecl) String() string {
	if n.Alias != nil {
		return "use " + n.BlockID + " as " + n.Alias.Value
	}
	return "use " + n.BlockID
}

// ModuleImportDecl is `use module_path as Alias` (NAAb module import,
// distinguished from UseDecl by the lexed form: a path rather than a
// BLOCK_ID token, §4.2).
type ModuleImportDecl struct {
	Token      token.Token
	File       string
	ModulePath string
	Alias      *Identifier
}

func (n *ModuleImportDecl) declarationNode()   {}
func (n *ModuleImportDecl) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *ModuleImportDecl) String() string {
	if n.Alias != nil {
		return "use " + n.ModulePath + " as " + n.Alias.Value
	}
	return "use " + n.ModulePath
}

// MainDecl is the top-level `main { ... }` entry block (§4.2).
type MainDecl struct {
	Token token.Token
	File  string
	Body  *BlockStatement
}

func (n *MainDecl) declarationNode()   {}
func (n *MainDecl) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *MainDecl) String() string     { return "main { " + n.Body.String() + " }" }

// ----------------------------------------------------------------------
// Type expressions
// ----------------------------------------------------------------------

type NamedType struct {
	Token token.Token
	File  string
	Name  string
}

func (n *NamedType) typeExprNode()      {}
func (n *NamedType) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *NamedType) String() string      { return n.Name }

// QualifiedType is `Module.Name`.
type QualifiedType struct {
	Token  token.Token
	File   string
	Module string
	Name   string
}

func (n *QualifiedType) typeExprNode()      {}
func (n *QualifiedType) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *QualifiedType) String() string      { return n.Module + "." + n.Name }

// GenericType is `Name<T, ...>`.
type GenericType struct {
	Token token.Token
	File  string
	Name  string
	Args  []TypeExpr
}

func (n *GenericType) typeExprNode()      {}
func (n *GenericType) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *GenericType) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "<" + strings.Join(parts, ", ") + ">"
}

// UnionType is `A | B`, left-associative (§4.2).
type UnionType struct {
	Token token.Token
	File  string
	Left  TypeExpr
	Right TypeExpr
}

func (n *UnionType) typeExprNode()      {}
func (n *UnionType) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *UnionType) String() string      { return n.Left.String() + " | " + n.Right.String() }

// NullableType is `T?`, postfix (§4.2, §4.3).
type NullableType struct {
	Token token.Token
	File  string
	Inner TypeExpr
}

func (n *NullableType) typeExprNode()      {}
func (n *NullableType) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *NullableType) String() string      { return n.Inner.String() + "?" }

// FunctionType is a function signature used as a type, `(T, U) -> R`.
type FunctionType struct {
	Token      token.Token
	File       string
	Params     []TypeExpr
	ReturnType TypeExpr
}

func (n *FunctionType) typeExprNode()      {}
func (n *FunctionType) Loc() SourceLocation { return loc(n.Token, n.File) }
func (n *FunctionType) String() string {
	parts := make([]string, len(n.Params))
	for i, p := range n.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if n.ReturnType != nil {
		ret = n.ReturnType.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}
