package cppexec

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/value"
)

func requireClang(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"clang++", "g++"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no C++ toolchain on PATH")
	return ""
}

const addSource = `
extern "C" long long naab_add(long long a, long long b) {
	return a + b;
}
`

func TestNewCompilesAndCallsExportedSymbol(t *testing.T) {
	toolchain := requireClang(t)
	cfg := Config{
		Toolchain: toolchain,
		CacheDir:  t.TempDir(),
		Limits:    marshal.DefaultLimits,
		Signatures: map[string]Signature{
			"naab_add": {Params: []value.Kind{value.KindInt, value.KindInt}, Return: value.KindInt},
		},
	}

	exec, err := New(context.Background(), "BLOCK-CPP-TEST", addSource, cfg)
	require.NoError(t, err)

	result, err := exec.Call(context.Background(), "naab_add", []value.Value{value.Int(2), value.Int(40)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.AsInt())
}

func TestNewStoresArtifactInCache(t *testing.T) {
	toolchain := requireClang(t)
	cacheDir := t.TempDir()
	cfg := Config{
		Toolchain: toolchain,
		CacheDir:  cacheDir,
		Limits:    marshal.DefaultLimits,
		Signatures: map[string]Signature{
			"naab_add": {Params: []value.Kind{value.KindInt, value.KindInt}, Return: value.KindInt},
		},
	}

	_, err := New(context.Background(), "BLOCK-CPP-TEST", addSource, cfg)
	require.NoError(t, err)

	cache, err := newArtifactCache(cacheDir)
	require.NoError(t, err)
	fp, err := probeToolchain(context.Background(), toolchain)
	require.NoError(t, err)
	hash := contentHash(addSource, nil, fp)
	assert.NotEmpty(t, cache.Lookup("BLOCK-CPP-TEST", hash))
}

func TestCallRejectsUndeclaredFunction(t *testing.T) {
	toolchain := requireClang(t)
	exec, err := New(context.Background(), "BLOCK-CPP-TEST", addSource, Config{
		Toolchain:  toolchain,
		CacheDir:   t.TempDir(),
		Limits:     marshal.DefaultLimits,
		Signatures: map[string]Signature{},
	})
	require.NoError(t, err)

	_, err = exec.Call(context.Background(), "naab_add", []value.Value{value.Int(1), value.Int(2)})
	require.Error(t, err)
}
