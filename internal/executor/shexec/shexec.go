// Package shexec implements the shell inline-code form (§6: lang ∈
// {python, javascript, cpp, sh, ...}). A body is run through the host
// shell and its result is always the struct {exit_code, stdout, stderr}
// the spec reserves for shell executors, grounded on the teacher pack's
// exec.Command + CombinedOutput pattern
// (termfx-morfx/cmd/validate-functionality/main.go), split into separate
// stdout/stderr pipes rather than combined output since the struct shape
// requires them distinct.
package shexec

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/naab-lang/naab/internal/value"
)

// Runner executes inline shell bodies. Bindings are exposed to the body
// as environment variables named after their NAAb binding, stringified
// via Value.Inspect — shell scripts have no structured-value channel.
type Runner struct {
	Shell string // default "/bin/sh"
}

// New builds a Runner using shell, or "/bin/sh" if shell is empty.
func New(shell string) *Runner {
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Runner{Shell: shell}
}

// RunInline executes body as a shell script, passing bindings in as
// environment variables, and returns the {exit_code, stdout, stderr}
// struct (§6).
func (r *Runner) RunInline(ctx context.Context, body string, bindings map[string]value.Value) (value.Value, error) {
	cmd := exec.CommandContext(ctx, r.Shell, "-c", body)
	cmd.Env = os.Environ()
	for name, v := range bindings {
		cmd.Env = append(cmd.Env, name+"="+v.Inspect())
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return value.Null(), err
		}
	}

	return value.StructOf(&value.StructInstance{
		TypeName:   "ShellResult",
		FieldOrder: []string{"exit_code", "stdout", "stderr"},
		Fields: map[string]value.Value{
			"exit_code": value.Int(int64(exitCode)),
			"stdout":    value.Str(stdout.String()),
			"stderr":    value.Str(stderr.String()),
		},
	}), nil
}
