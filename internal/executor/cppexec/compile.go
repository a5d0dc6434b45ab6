package cppexec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// compile writes source to a temp .cpp file and invokes the host C++
// toolchain with position-independent-code, shared-library, and -O2
// options (§4.7), producing outPath.
func compile(ctx context.Context, toolchain, source, outPath string, flags []string) error {
	tmpDir, err := os.MkdirTemp("", "naab-cppexec-*")
	if err != nil {
		return fmt.Errorf("cppexec: creating build dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	srcPath := filepath.Join(tmpDir, "block.cpp")
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		return fmt.Errorf("cppexec: writing source: %w", err)
	}

	args := append([]string{
		"-shared", "-fPIC", "-O2",
		"-o", outPath,
		srcPath,
	}, flags...)

	cmd := exec.CommandContext(ctx, toolchain, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &CompileError{Toolchain: toolchain, Diagnostics: string(out), Cause: err}
	}
	return nil
}

// CompileError carries the toolchain's diagnostic text (§4.7 "compilation
// failure ... produces a distinct error kind with the toolchain's
// diagnostic text captured").
type CompileError struct {
	Toolchain   string
	Diagnostics string
	Cause       error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("cppexec: %s failed: %v\n%s", e.Toolchain, e.Cause, e.Diagnostics)
}

func (e *CompileError) Unwrap() error { return e.Cause }
