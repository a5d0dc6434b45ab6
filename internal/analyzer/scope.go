package analyzer

import "github.com/naab-lang/naab/internal/ast"

// symbolKind distinguishes the binding forms the analyzer tracks; only
// kindLocal and kindParam are eligible for the unused-binding warning —
// functions, structs, and enums are assumed used across module boundaries
// the analyzer cannot see.
type symbolKind int

const (
	kindLocal symbolKind = iota
	kindParam
	kindFunction
	kindStruct
	kindEnum
	kindBlockAlias
)

type symbol struct {
	name string
	kind symbolKind
	typ  ast.TypeExpr
	loc  ast.SourceLocation
	used bool
}

// scope is one lexical level of the symbol table stack: a compound
// statement, function body, or the file-level (root) scope.
type scope struct {
	parent  *scope
	symbols map[string]*symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, symbols: make(map[string]*symbol)}
}

// declareHere reports whether name is already bound in this exact scope
// (same-scope redeclaration is the only one analyzer.go treats as an
// error — shadowing in a child scope is permitted per §4.4).
func (s *scope) declareHere(name string) (*symbol, bool) {
	existing, ok := s.symbols[name]
	return existing, ok
}

func (s *scope) define(sym *symbol) {
	s.symbols[sym.name] = sym
}

// resolve walks the parent chain, returning the nearest enclosing binding.
func (s *scope) resolve(name string) (*symbol, *scope) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, cur
		}
	}
	return nil, nil
}

// visibleNames collects every name visible from this scope outward, used
// to build "did you mean" candidate lists.
func (s *scope) visibleNames() []string {
	var names []string
	seen := make(map[string]bool)
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.symbols {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
