package interpreter

import (
	"context"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/token"
	"github.com/naab-lang/naab/internal/value"
)

// BlockLoader resolves a block-id into a callable Executor (§4.6). The
// interpreter never talks to the registry or a language executor
// directly — a host wires a concrete loader (internal/registry +
// internal/executor) in via SetBlockLoader.
type BlockLoader interface {
	Load(ctx context.Context, blockID string) (Executor, error)
}

// Executor is the capability one loaded block exposes: calling one of its
// exported functions (§4.7).
type Executor interface {
	Call(ctx context.Context, funcName string, args []value.Value) (value.Value, error)
}

// InlineRunner executes `<<lang[...] ...>>` expressions and resolves
// attribute access on foreign objects those expressions or block calls
// return (§4.1, §4.7, §4.8).
type InlineRunner interface {
	RunInline(ctx context.Context, language, body string, bindings map[string]value.Value) (value.Value, error)
	GetAttribute(ctx context.Context, obj *value.ForeignObject, name string) (value.Value, error)
}

func (ip *Interp) evalUseDecl(n *ast.UseDecl, env *value.Environment) error {
	alias := n.BlockID
	if n.Alias != nil {
		alias = n.Alias.Value
	}
	langTag, _ := token.BlockLanguageHint(n.BlockID)
	bf := &value.BlockFunction{BlockID: n.BlockID, LanguageTag: langTag}
	env.Define(alias, value.BlockFunctionOf(bf))
	return nil
}

func (ip *Interp) callContext() (context.Context, context.CancelFunc) {
	if ip.cfg == nil || ip.cfg.CallTimeout <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), ip.cfg.CallTimeout)
}

func (ip *Interp) callBlockFunction(loc ast.SourceLocation, bf *value.BlockFunction, args []value.Value) (value.Value, error) {
	if bf.FuncName == "" {
		return value.Null(), ip.throwErr(loc, naaberr.RuntimeError, "block %s was referenced directly; call one of its exported functions", bf.BlockID)
	}
	if ip.loader == nil {
		return value.Null(), ip.throwErr(loc, naaberr.BlockNotFound, "no block loader configured to resolve %s", bf.BlockID)
	}

	ctx, cancel := ip.callContext()
	defer cancel()

	exec, err := ip.loader.Load(ctx, bf.BlockID)
	if err != nil {
		return value.Null(), ip.wrapExternalErr(loc, naaberr.BlockNotFound, err)
	}

	frame := naaberr.StackFrame{Function: bf.BlockID + "." + bf.FuncName, File: bf.BlockID, Line: 0}
	ip.callStack = append(ip.callStack, frame)
	v, err := exec.Call(ctx, bf.FuncName, args)
	ip.callStack = ip.callStack[:len(ip.callStack)-1]
	if err != nil {
		return value.Null(), ip.wrapExternalErr(loc, naaberr.RuntimeError, err)
	}
	return v, nil
}

func (ip *Interp) evalInlineCode(n *ast.InlineCodeExpression, env *value.Environment) (value.Value, error) {
	loc := n.Loc()
	if ip.inline == nil {
		return value.Null(), ip.throwErr(loc, naaberr.RuntimeError, "no inline executor configured for language %q", n.Language)
	}

	bindings := make(map[string]value.Value, len(n.Bindings))
	for _, name := range n.Bindings {
		v, ok := env.Get(name)
		if !ok {
			return value.Null(), ip.throwErr(loc, naaberr.NameError, "inline binding %q is not defined", name)
		}
		bindings[name] = v
	}

	ctx, cancel := ip.callContext()
	defer cancel()

	v, err := ip.inline.RunInline(ctx, n.Language, n.Body, bindings)
	if err != nil {
		return value.Null(), ip.wrapExternalErr(loc, naaberr.RuntimeError, err)
	}
	return v, nil
}
