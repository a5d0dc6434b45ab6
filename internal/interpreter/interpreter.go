// Package interpreter tree-walks a parsed program over the tagged Value
// universe in package value. Its Eval dispatch, block/return propagation,
// and applyFunction-style call mechanics are grounded on the teacher's
// evaluator.Eval, generalized for NAAb's richer statement/expression set
// and rebuilt on explicit error returns instead of a package-global
// NULL/TRUE/FALSE singleton scheme.
package interpreter

import (
	"io"
	"os"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/config"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
	"github.com/sirupsen/logrus"
)

// Interp is one interpreter run: its arena/GC, declared types, call stack,
// and the optional block loader / inline-code runner a host wires in.
type Interp struct {
	arena  *value.Arena
	global *value.Environment
	gc     *value.Collector
	cfg    *config.Config

	callStack []naaberr.StackFrame

	structDecls map[string]*ast.StructDecl
	enumDecls   map[string]*ast.EnumDecl

	builtins map[string]nativeFn
	output   io.Writer

	loader BlockLoader
	inline InlineRunner
}

// New creates an interpreter with a fresh arena and the given runtime
// configuration (recursion depth, GC threshold, call timeout, ...).
func New(cfg *config.Config) *Interp {
	if cfg == nil {
		cfg = config.Load()
	}
	arena := value.NewArena()
	gc := value.NewCollector(arena)
	gc.Threshold(cfg.GCAllocThreshold)

	ip := &Interp{
		arena:       arena,
		global:      arena.Root(),
		gc:          gc,
		cfg:         cfg,
		structDecls: make(map[string]*ast.StructDecl),
		enumDecls:   make(map[string]*ast.EnumDecl),
		output:      os.Stdout,
	}
	ip.registerBuiltins()
	return ip
}

// SetOutput redirects the `print` builtin's destination (§0 ambient
// stack). Embeddings without a real stdout — a WASM host capturing
// output into a string buffer, for instance — wire their own io.Writer
// in here instead of leaving it pointed at os.Stdout.
func (ip *Interp) SetOutput(w io.Writer) { ip.output = w }

// SetBlockLoader wires the registry-backed loader `use BLOCK-...` calls
// resolve through (§4.6). Without one, calling a block function raises
// BlockNotFoundError.
func (ip *Interp) SetBlockLoader(l BlockLoader) { ip.loader = l }

// SetInlineRunner wires the dispatcher inline `<<lang[...] ...>>`
// expressions and foreign-object attribute access go through (§4.7).
func (ip *Interp) SetInlineRunner(r InlineRunner) { ip.inline = r }

// Global exposes the root environment, mainly for host embeddings that
// want to predefine bindings before Run.
func (ip *Interp) Global() *value.Environment { return ip.global }

// Run registers every top-level declaration, then evaluates the program's
// `main` block. A bare `return` inside main simply ends the run early; an
// uncaught throw is returned as the run's error.
func (ip *Interp) Run(prog *ast.Program) (value.Value, error) {
	var main *ast.MainDecl

	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.StructDecl:
			ip.structDecls[d.Name.Value] = d
		case *ast.EnumDecl:
			ip.enumDecls[d.Name.Value] = d
		case *ast.FunctionDecl:
			fn := ip.makeFunctionValue(d.Name.Value, d.TypeParams, d.Params, d.ReturnType, d.Body, ip.global, d.Loc())
			ip.global.Define(d.Name.Value, value.FunctionOf(fn))
		case *ast.UseDecl:
			if err := ip.evalUseDecl(d, ip.global); err != nil {
				return value.Null(), unwrapTop(err)
			}
		case *ast.ModuleImportDecl:
			logrus.WithField("module", d.ModulePath).Debug("module import noted; resolution is a host embedding concern")
		case *ast.MainDecl:
			main = d
		}
	}

	if main == nil {
		return value.Null(), naaberr.New(naaberr.RuntimeError, "", 0, 0, "program has no main block")
	}

	v, err := ip.evalBlock(main.Body, ip.global.Child())
	if err == nil {
		return v, nil
	}
	sig, ok := asSignal(err)
	if !ok {
		return value.Null(), err
	}
	if sig.isReturn {
		return sig.value, nil
	}
	return value.Null(), sig.err
}

func unwrapTop(err error) error {
	if sig, ok := asSignal(err); ok {
		if sig.isReturn {
			return nil
		}
		return sig.err
	}
	return err
}

// Eval dispatches a single AST node to its evaluation. Statements return
// the Value of their last-evaluated expression (used so an expression
// statement's value can surface as a block's overall result, mirroring
// the teacher's evalBlockStatement convention); declarations never reach
// here (Run registers them directly).
func (ip *Interp) Eval(node ast.Node, env *value.Environment) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Identifier:
		return ip.evalIdentifier(n, env)
	case *ast.IntegerLiteral:
		return value.Int(n.Value), nil
	case *ast.FloatLiteral:
		return value.Float(n.Value), nil
	case *ast.StringLiteral:
		return value.Str(n.Value), nil
	case *ast.BooleanLiteral:
		return value.Bool(n.Value), nil
	case *ast.NullLiteral:
		return value.Null(), nil
	case *ast.ListLiteral:
		return ip.evalListLiteral(n, env)
	case *ast.DictLiteral:
		return ip.evalDictLiteral(n, env)
	case *ast.StructLiteral:
		return ip.evalStructLiteral(n, env)
	case *ast.UnaryExpression:
		return ip.evalUnary(n, env)
	case *ast.BinaryExpression:
		return ip.evalBinary(n, env)
	case *ast.AssignExpression:
		return ip.evalAssign(n, env)
	case *ast.CallExpression:
		return ip.evalCall(n, env)
	case *ast.IndexExpression:
		return ip.evalIndex(n, env)
	case *ast.MemberExpression:
		return ip.evalMember(n, env)
	case *ast.InlineCodeExpression:
		return ip.evalInlineCode(n, env)
	case *ast.FunctionLiteral:
		fn := ip.makeFunctionValue("", n.TypeParams, n.Params, n.ReturnType, n.Body, env, n.Loc())
		return value.FunctionOf(fn), nil
	case *ast.BlockStatement:
		return ip.evalBlock(n, env.Child())
	case *ast.LetStatement:
		return ip.evalLet(n, env)
	case *ast.ExpressionStatement:
		if n.Expression == nil {
			return value.Null(), nil
		}
		return ip.Eval(n.Expression, env)
	case *ast.ReturnStatement:
		return ip.evalReturn(n, env)
	case *ast.IfStatement:
		return ip.evalIf(n, env)
	case *ast.WhileStatement:
		return ip.evalWhile(n, env)
	case *ast.ForStatement:
		return ip.evalFor(n, env)
	case *ast.TryStatement:
		return ip.evalTry(n, env)
	case *ast.ThrowStatement:
		return ip.evalThrow(n, env)
	default:
		return value.Null(), ip.throwErr(node.Loc(), naaberr.RuntimeError, "cannot evaluate node of type %T", node)
	}
}

func (ip *Interp) evalIdentifier(n *ast.Identifier, env *value.Environment) (value.Value, error) {
	if v, ok := env.Get(n.Value); ok {
		return v, nil
	}
	return value.Null(), ip.throwErr(n.Loc(), naaberr.NameError, "undefined name %q", n.Value)
}

// evalBlock runs every statement in sequence, stopping (and propagating)
// on the first error or control signal — a return/throw must unwind
// immediately rather than run the rest of the block (§4.4).
func (ip *Interp) evalBlock(block *ast.BlockStatement, env *value.Environment) (value.Value, error) {
	result := value.Null()
	for _, stmt := range block.Statements {
		v, err := ip.Eval(stmt, env)
		if err != nil {
			return v, err
		}
		result = v
	}
	return result, nil
}
