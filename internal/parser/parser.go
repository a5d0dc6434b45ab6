// Package parser implements a recursive-descent parser with Pratt parsing
// for expressions, converting a token stream from lexer into the typed
// AST defined by the ast package. It follows the teacher's parser shape —
// curToken/peekToken lookahead, prefix/infix function tables keyed by
// token kind, precedence climbing for expressions — generalized to NAAb's
// statement/declaration grammar.
package parser

import (
	"fmt"
	"strconv"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/lexer"
	"github.com/naab-lang/naab/internal/token"
)

// Precedence levels, loosest to tightest.
const (
	_ int = iota
	LOWEST
	ASSIGN     // = (right-associative)
	PIPELINE   // |>
	LOGIC_OR   // ||
	LOGIC_AND  // &&
	EQUALITY   // == !=
	COMPARISON // < > <= >=
	SUM        // + -
	PRODUCT    // * / %
	PREFIX     // -x !x
	CALL       // f(x), a[i], a.b
)

var precedences = map[token.Kind]int{
	token.ASSIGN:   ASSIGN,
	token.PIPE:     PIPELINE,
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALITY,
	token.NOT_EQ:   EQUALITY,
	token.LT:       COMPARISON,
	token.GT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token stream into a Program.
type Parser struct {
	l      *lexer.Lexer
	file   string
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn

	// inControlHeader disallows a bare struct literal while parsing an
	// if/while/for header, mirroring Go's own restriction on unparenthesized
	// composite literals there — without it, `if cond { ... }` would parse
	// `cond { ... }` as a struct literal followed by an empty consequence.
	inControlHeader int
}

// New builds a Parser reading from l. file is used only to stamp
// SourceLocation.File on every node (stack traces, §4.9).
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}

	p.prefixParseFns = make(map[token.Kind]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BOOL, p.parseBooleanLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.LBRACE, p.parseDictLiteral)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(token.INLINE_BLOCK, p.parseInlineCodeExpression)

	p.infixParseFns = make(map[token.Kind]infixParseFn)
	for _, k := range []token.Kind{token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ, token.AND, token.OR, token.PIPE} {
		p.registerInfix(k, p.parseBinaryExpression)
	}
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)

	p.advance()
	p.advance()
	return p
}

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) { p.prefixParseFns[k] = fn }
func (p *Parser) registerInfix(k token.Kind, fn infixParseFn)   { p.infixParseFns[k] = fn }

// Errors returns the accumulated syntax errors, in the order encountered.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) advance() {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil {
		p.errors = append(p.errors, err.Error())
		tok = token.Token{Kind: token.ILLEGAL, Line: tok.Line, Column: tok.Column}
	}
	p.peekToken = tok
}

func (p *Parser) curIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peekToken.Kind == k }

func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekIs(k) {
		p.advance()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(k token.Kind) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: expected next token to be %s, got %s instead",
		p.peekToken.Line, p.peekToken.Column, k, p.peekToken.Kind))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Kind]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Kind]; ok {
		return prec
	}
	return LOWEST
}

// skipNewlines consumes any run of NEWLINE tokens sitting at curToken; used
// between statements and around block delimiters where a blank line is
// cosmetic, not significant.
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) loc() ast.SourceLocation {
	return ast.SourceLocation{File: p.file, Line: p.curToken.Line, Column: p.curToken.Column}
}

// ----------------------------------------------------------------------
// Program / declarations
// ----------------------------------------------------------------------

// ParseProgram is the entry point: consumes the whole token stream into a
// sequence of top-level declarations (use/module-import/function/struct/
// enum/main, §4.2).
func ParseProgram(l *lexer.Lexer, file string) (*ast.Program, []string) {
	p := New(l, file)
	program := &ast.Program{}

	p.skipNewlines()
	for !p.curIs(token.EOF) {
		decl := p.parseDeclaration()
		if decl != nil {
			program.Declarations = append(program.Declarations, decl)
		}
		p.advance()
		p.skipNewlines()
	}
	return program, p.errors
}

func (p *Parser) parseDeclaration() ast.Declaration {
	switch p.curToken.Kind {
	case token.USE:
		return p.parseUseOrModuleImport()
	case token.FUNCTION:
		return p.parseFunctionDecl()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.ENUM:
		return p.parseEnumDecl()
	case token.MAIN:
		return p.parseMainDecl()
	default:
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: unexpected top-level token %s",
			p.curToken.Line, p.curToken.Column, p.curToken.Kind))
		return nil
	}
}

// parseUseOrModuleImport parses `use BLOCK-... as alias` or
// `use module.path as alias` (§4.2, §4.6). The lexer already distinguishes
// the two forms: a BLOCK_ID token vs. a dotted IDENT chain.
func (p *Parser) parseUseOrModuleImport() ast.Declaration {
	tok := p.curToken
	if p.peekIs(token.BLOCK_ID) {
		p.advance()
		decl := &ast.UseDecl{Token: tok, File: p.file, BlockID: p.curToken.Lexeme}
		if p.peekIs(token.AS) {
			p.advance()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			decl.Alias = &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
		}
		return decl
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	path := p.curToken.Lexeme
	for p.peekIs(token.DOT) {
		p.advance()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		path += "." + p.curToken.Lexeme
	}
	decl := &ast.ModuleImportDecl{Token: tok, File: p.file, ModulePath: path}
	if p.peekIs(token.AS) {
		p.advance()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		decl.Alias = &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
	}
	return decl
}

func (p *Parser) parseFunctionDecl() ast.Declaration {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl := &ast.FunctionDecl{Token: tok, File: p.file, Name: &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}}

	if p.peekIs(token.LT) {
		p.advance()
		decl.TypeParams = p.parseTypeParamList()
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	decl.Params = p.parseParamList()

	if p.peekIs(token.ARROW) {
		p.advance()
		p.advance()
		decl.ReturnType = p.parseTypeExpr()
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlockStatement()
	return decl
}

func (p *Parser) parseTypeParamList() []*ast.Identifier {
	var params []*ast.Identifier
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	params = append(params, &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme})
	for p.peekIs(token.COMMA) {
		p.advance()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme})
	}
	if !p.expectPeek(token.GT) {
		return nil
	}
	return params
}

// parseParamList parses `(name: Type = default, ref name2: Type, ...)`
// with curToken on LPAREN on entry, RPAREN on exit (§4.2).
func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.peekIs(token.RPAREN) {
		p.advance()
		return params
	}
	p.advance()
	params = append(params, p.parseOneParam())
	for p.peekIs(token.COMMA) {
		p.advance()
		p.advance()
		params = append(params, p.parseOneParam())
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseOneParam() ast.Param {
	var param ast.Param
	if p.curIs(token.IDENT) && p.curToken.Lexeme == "ref" && p.peekIs(token.IDENT) {
		param.IsRef = true
		p.advance()
	}
	param.Name = &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
	if p.peekIs(token.COLON) {
		p.advance()
		p.advance()
		param.Type = p.parseTypeExpr()
	}
	if p.peekIs(token.ASSIGN) {
		p.advance()
		p.advance()
		param.Default = p.parseExpression(LOWEST)
	}
	return param
}

func (p *Parser) parseStructDecl() ast.Declaration {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl := &ast.StructDecl{Token: tok, File: p.file, Name: &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}}

	if p.peekIs(token.LT) {
		p.advance()
		decl.TypeParams = p.parseTypeParamList()
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.advance()
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		field := ast.StructField{Name: &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.advance()
		field.Type = p.parseTypeExpr()
		if p.peekIs(token.ASSIGN) {
			p.advance()
			p.advance()
			field.Default = p.parseExpression(LOWEST)
		}
		decl.Fields = append(decl.Fields, field)
		p.advance()
		if p.curIs(token.COMMA) || p.curIs(token.NEWLINE) {
			p.advance()
		}
		p.skipNewlines()
	}
	return decl
}

func (p *Parser) parseEnumDecl() ast.Declaration {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl := &ast.EnumDecl{Token: tok, File: p.file, Name: &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.advance()
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		variant := ast.EnumVariant{Tag: &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}}
		if p.peekIs(token.LPAREN) {
			p.advance()
			p.advance()
			variant.PayloadType = p.parseTypeExpr()
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		if p.peekIs(token.ASSIGN) {
			p.advance()
			p.advance()
			variant.Discriminant = p.parseExpression(LOWEST)
		}
		decl.Variants = append(decl.Variants, variant)
		p.advance()
		if p.curIs(token.COMMA) || p.curIs(token.NEWLINE) {
			p.advance()
		}
		p.skipNewlines()
	}
	return decl
}

func (p *Parser) parseMainDecl() ast.Declaration {
	tok := p.curToken
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	return &ast.MainDecl{Token: tok, File: p.file, Body: p.parseBlockStatement()}
}

// ----------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------

// parseBlockStatement parses `{ ... }` with curToken on LBRACE on entry and
// RBRACE on exit.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, File: p.file}
	p.advance()
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.advance()
		p.skipNewlines()
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.THROW:
		return p.parseThrowStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt := &ast.LetStatement{Token: tok, File: p.file, Name: &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}}
	if p.peekIs(token.COLON) {
		p.advance()
		p.advance()
		stmt.Type = p.parseTypeExpr()
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.advance()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken, File: p.file}
	if p.peekIs(token.NEWLINE) || p.peekIs(token.RBRACE) || p.peekIs(token.EOF) {
		return stmt
	}
	p.advance()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken, File: p.file}
	p.advance()
	p.inControlHeader++
	stmt.Condition = p.parseExpression(LOWEST)
	p.inControlHeader--
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()
	if p.peekIs(token.ELSE) {
		p.advance()
		if p.peekIs(token.IF) {
			p.advance()
			nested := p.parseIfStatement()
			stmt.Alternative = &ast.BlockStatement{Token: p.curToken, File: p.file, Statements: []ast.Statement{nested}}
			return stmt
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Alternative = p.parseBlockStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken, File: p.file}
	p.advance()
	p.inControlHeader++
	stmt.Condition = p.parseExpression(LOWEST)
	p.inControlHeader--
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken, File: p.file}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Iterator = &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.advance()
	p.inControlHeader++
	stmt.Iterable = p.parseExpression(LOWEST)
	p.inControlHeader--
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseTryStatement parses `try { } catch (name) { } finally { }`, both
// catch and finally optional but at least one required (Open Question #2:
// finally is permitted with no catch).
func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken, File: p.file}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.TryBlock = p.parseBlockStatement()

	if p.peekIs(token.CATCH) {
		p.advance()
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.CatchName = &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.CatchBlock = p.parseBlockStatement()
	}
	if p.peekIs(token.FINALLY) {
		p.advance()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.FinallyBlock = p.parseBlockStatement()
	}
	if stmt.CatchBlock == nil && stmt.FinallyBlock == nil {
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: try requires a catch or a finally block",
			stmt.Token.Line, stmt.Token.Column))
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken, File: p.file}
	p.advance()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken, File: p.file}
	stmt.Expression = p.parseExpression(LOWEST)
	return stmt
}

// ----------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Kind]
	if prefix == nil {
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: no prefix parse function for %s",
			p.curToken.Line, p.curToken.Column, p.curToken.Kind))
		return nil
	}
	left := prefix()

	for !p.peekIs(token.NEWLINE) && !p.peekIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Kind]
		if infix == nil {
			return left
		}
		p.advance()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
	if p.peekIs(token.LBRACE) && p.inControlHeader == 0 {
		return p.parseStructLiteral(ident)
	}
	return ident
}

// parseStructLiteral parses the bare `Name { field: expr, ... }` form (no
// `new` keyword) with curToken on the type name identifier on entry.
func (p *Parser) parseStructLiteral(name *ast.Identifier) ast.Expression {
	lit := &ast.StructLiteral{Token: name.Token, File: p.file, Name: name}
	p.advance() // consume the name, curToken now LBRACE
	p.advance()
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.errors = append(p.errors, fmt.Sprintf("%d:%d: expected field name in struct literal, got %s",
				p.curToken.Line, p.curToken.Column, p.curToken.Kind))
			return lit
		}
		field := ast.StructFieldInit{Name: &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}}
		if !p.expectPeek(token.COLON) {
			return lit
		}
		p.advance()
		field.Value = p.parseExpression(LOWEST)
		lit.Fields = append(lit.Fields, field)
		p.advance()
		if p.curIs(token.COMMA) || p.curIs(token.NEWLINE) {
			p.advance()
		}
		p.skipNewlines()
	}
	return lit
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	val, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: could not parse %q as integer",
			p.curToken.Line, p.curToken.Column, p.curToken.Lexeme))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, File: p.file, Value: val}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	val, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: could not parse %q as float",
			p.curToken.Line, p.curToken.Column, p.curToken.Lexeme))
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, File: p.file, Value: val}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme == "true"}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken, File: p.file}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	op := p.curToken.Lexeme
	p.advance()
	return &ast.UnaryExpression{Token: tok, File: p.file, Operator: op, Right: p.parseExpression(PREFIX)}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.advance()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	lit := &ast.ListLiteral{Token: p.curToken, File: p.file}
	lit.Elements = p.parseExpressionList(token.RBRACKET)
	return lit
}

func (p *Parser) parseDictLiteral() ast.Expression {
	lit := &ast.DictLiteral{Token: p.curToken, File: p.file}
	if p.peekIs(token.RBRACE) {
		p.advance()
		return lit
	}
	for {
		p.advance()
		key := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.advance()
		val := p.parseExpression(LOWEST)
		lit.Entries = append(lit.Entries, ast.DictEntry{Key: key, Value: val})
		if p.peekIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return lit
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	lit := &ast.FunctionLiteral{Token: tok, File: p.file}
	lit.Params = p.parseParamList()
	if p.peekIs(token.ARROW) {
		p.advance()
		p.advance()
		lit.ReturnType = p.parseTypeExpr()
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement()
	return lit
}

func (p *Parser) parseInlineCodeExpression() ast.Expression {
	payload := p.curToken.Payload
	exp := &ast.InlineCodeExpression{Token: p.curToken, File: p.file}
	if payload != nil {
		exp.Language = payload.Language
		exp.Bindings = payload.Bindings
		exp.Body = payload.Body
	}
	return exp
}

// parseExpressionList parses a comma-separated list with curToken on the
// opening bracket on entry, the closing `end` token on exit.
func (p *Parser) parseExpressionList(end token.Kind) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.advance()
		return list
	}
	p.advance()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.advance()
		p.advance()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := p.curToken.Lexeme
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Token: tok, File: p.file, Left: left, Operator: op, Right: right}
}

// parseAssignExpression is right-associative: the right side is parsed at
// ASSIGN-1 so a further "=" on the right recurses into this function again
// rather than returning to the caller's loop.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.advance()
	right := p.parseExpression(ASSIGN - 1)
	return &ast.AssignExpression{Token: tok, File: p.file, Target: left, Value: right}
}

// parseCallExpression parses the parenthesized argument list of a call
// expression; it is registered as the infix parse function for "(".
// NAAb has no syntax for an explicit call-site type-argument list
// (`f<Type>(args)`): a "<" following a callee is always the comparison
// operator (registered separately via parseBinaryExpression), and a
// generic function's type parameters are instead inferred from the
// argument values at call time (§8 scenario 6).
func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, File: p.file, Function: fn}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	return exp
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, File: p.file, Left: left}
	p.advance()
	exp.Index = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	exp := &ast.MemberExpression{Token: p.curToken, File: p.file, Object: left}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Field = &ast.Identifier{Token: p.curToken, File: p.file, Value: p.curToken.Lexeme}
	return exp
}

// ----------------------------------------------------------------------
// Type expressions
// ----------------------------------------------------------------------

// parseTypeExpr parses a type expression with curToken already on its
// first token. Grammar (§4.2): named | qualified | generic<Args> |
// A | B (union, left-assoc) | T? (nullable, postfix) | (T, U) -> R.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	left := p.parseTypeAtom()
	for p.peekIs(token.BAR) {
		p.advance()
		tok := p.curToken
		p.advance()
		right := p.parseTypeAtom()
		left = &ast.UnionType{Token: tok, File: p.file, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	var base ast.TypeExpr
	switch p.curToken.Kind {
	case token.LPAREN:
		base = p.parseFunctionType()
	case token.IDENT, token.ANY, token.VOID:
		base = p.parseNamedOrGenericOrQualifiedType()
	default:
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: expected a type, got %s",
			p.curToken.Line, p.curToken.Column, p.curToken.Kind))
		return nil
	}
	for p.peekIs(token.QUESTION) {
		p.advance()
		base = &ast.NullableType{Token: p.curToken, File: p.file, Inner: base}
	}
	return base
}

func (p *Parser) parseNamedOrGenericOrQualifiedType() ast.TypeExpr {
	tok := p.curToken
	name := p.curToken.Lexeme

	if p.peekIs(token.DOT) {
		p.advance()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		return &ast.QualifiedType{Token: tok, File: p.file, Module: name, Name: p.curToken.Lexeme}
	}

	if p.peekIs(token.LT) {
		p.advance()
		p.advance()
		var args []ast.TypeExpr
		args = append(args, p.parseTypeExpr())
		for p.peekIs(token.COMMA) {
			p.advance()
			p.advance()
			args = append(args, p.parseTypeExpr())
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
		return &ast.GenericType{Token: tok, File: p.file, Name: name, Args: args}
	}

	return &ast.NamedType{Token: tok, File: p.file, Name: name}
}

func (p *Parser) parseFunctionType() ast.TypeExpr {
	tok := p.curToken
	var params []ast.TypeExpr
	if !p.peekIs(token.RPAREN) {
		p.advance()
		params = append(params, p.parseTypeExpr())
		for p.peekIs(token.COMMA) {
			p.advance()
			p.advance()
			params = append(params, p.parseTypeExpr())
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	ft := &ast.FunctionType{Token: tok, File: p.file, Params: params}
	if p.peekIs(token.ARROW) {
		p.advance()
		p.advance()
		ft.ReturnType = p.parseTypeExpr()
	}
	return ft
}
