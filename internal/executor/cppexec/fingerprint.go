package cppexec

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"
)

// toolchainFingerprint identifies the compiler + libc combination a
// compiled artifact was built against (§9: "toolchain fingerprint
// includes libc version"), so a cache entry from one host is never
// reused on another with an incompatible ABI.
type toolchainFingerprint struct {
	Compiler     string
	CompilerVers string
	LibcVers     string
}

func (f toolchainFingerprint) String() string {
	return fmt.Sprintf("%s/%s/libc-%s", f.Compiler, f.CompilerVers, f.LibcVers)
}

// probeToolchain shells out to `<compiler> --version` and `ldd --version`
// to build a fingerprint, grounded on termfx-morfx's exec.Command +
// CombinedOutput pattern (cmd/validate-functionality/main.go).
func probeToolchain(ctx context.Context, compiler string) (toolchainFingerprint, error) {
	ccOut, err := exec.CommandContext(ctx, compiler, "--version").CombinedOutput()
	if err != nil {
		return toolchainFingerprint{}, fmt.Errorf("cppexec: probing %s: %w", compiler, err)
	}
	ccVers := firstVersionToken(string(ccOut))

	libcVers := "unknown"
	if lddOut, err := exec.CommandContext(ctx, "ldd", "--version").CombinedOutput(); err == nil {
		libcVers = firstVersionToken(string(lddOut))
	}

	return toolchainFingerprint{Compiler: compiler, CompilerVers: ccVers, LibcVers: libcVers}, nil
}

func firstVersionToken(output string) string {
	for _, field := range strings.Fields(output) {
		if semver.IsValid("v" + field) {
			return field
		}
		if strings.Count(field, ".") >= 1 && strings.IndexFunc(field, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
			return field
		}
	}
	return "0"
}

// contentHash is the cache key's input hash over (source, flags,
// toolchain fingerprint) (§4.7).
func contentHash(source string, flags []string, fp toolchainFingerprint) string {
	h := sha256.New()
	h.Write([]byte(source))
	for _, f := range flags {
		h.Write([]byte{0})
		h.Write([]byte(f))
	}
	h.Write([]byte{0})
	h.Write([]byte(fp.String()))
	return hex.EncodeToString(h.Sum(nil))
}
