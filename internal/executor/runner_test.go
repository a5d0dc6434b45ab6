package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/marshal"
	"github.com/naab-lang/naab/internal/value"
)

func TestRunInlineDispatchesByLanguage(t *testing.T) {
	r := NewRunner(marshal.DefaultLimits, "")

	jsResult, err := r.RunInline(context.Background(), "javascript", "a + b", map[string]value.Value{
		"a": value.Int(1), "b": value.Int(2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), jsResult.AsInt())

	pyResult, err := r.RunInline(context.Background(), "python", "a + b", map[string]value.Value{
		"a": value.Int(4), "b": value.Int(5),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), pyResult.AsInt())

	shResult, err := r.RunInline(context.Background(), "sh", "echo -n ok", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", shResult.AsStruct().Fields["stdout"].AsString())
}

func TestRunInlineUnknownLanguageErrors(t *testing.T) {
	r := NewRunner(marshal.DefaultLimits, "")
	_, err := r.RunInline(context.Background(), "ruby", "1", nil)
	require.Error(t, err)
}

func TestRunInlineCppIsUnsupported(t *testing.T) {
	r := NewRunner(marshal.DefaultLimits, "")
	_, err := r.RunInline(context.Background(), "cpp", "return 1;", nil)
	require.Error(t, err)
}
