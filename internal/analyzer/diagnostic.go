// Package analyzer walks a parsed program building a scope-stacked symbol
// table and reporting unresolved names, duplicate declarations, type-case
// violations, nullability misuse, assignment-without-binding, and unused
// parameter/local warnings (§4.3). It never mutates the AST or the
// interpreter's runtime state — Analyze is a pure read-only pass the driver
// runs between parsing and evaluation, surfacing Diagnostics rather than
// failing fast, mirroring the teacher's error-accumulation style in its
// parser (collect every error, keep going) generalized to a second pass.
package analyzer

import (
	"fmt"

	"github.com/naab-lang/naab/internal/ast"
	"github.com/naab-lang/naab/internal/naaberr"
)

// Severity distinguishes a hard error (the kind the interpreter would
// eventually also raise at runtime) from an advisory warning (unused
// locals/parameters) that never blocks execution.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one analyzer finding, carrying the naaberr.Kind the
// interpreter would raise for the same condition so the driver can report
// analyzer and runtime errors through one consistent vocabulary.
type Diagnostic struct {
	Severity Severity
	Kind     naaberr.Kind
	Message  string
	Loc      ast.SourceLocation
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Severity, d.Kind, d.Message, d.Loc)
}
