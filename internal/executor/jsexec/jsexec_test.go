package jsexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/value"
)

func TestCallInvokesExportedFunction(t *testing.T) {
	exec, err := New(`function add(a, b) { return a + b; }`, marshal.DefaultLimits)
	require.NoError(t, err)

	result, err := exec.Call(context.Background(), "add", []value.Value{value.Int(2), value.Int(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.AsInt())
}

func TestCallMissingFunctionErrors(t *testing.T) {
	exec, err := New(`function noop() {}`, marshal.DefaultLimits)
	require.NoError(t, err)

	_, err = exec.Call(context.Background(), "missing", nil)
	require.Error(t, err)
}

func TestRunInlineInjectsBindingsAndReturnsCompletionValue(t *testing.T) {
	exec, err := New(``, marshal.DefaultLimits)
	require.NoError(t, err)

	result, err := exec.RunInline(context.Background(), `x + y`, map[string]value.Value{
		"x": value.Int(4),
		"y": value.Int(6),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.AsInt())
}
