package shexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/value"
)

func TestRunInlineCapturesStdoutAndExitCode(t *testing.T) {
	r := New("")
	result, err := r.RunInline(context.Background(), `echo -n "$GREETING"`, map[string]value.Value{
		"GREETING": value.Str("hello"),
	})
	require.NoError(t, err)
	strct := result.AsStruct()
	assert.Equal(t, "hello", strct.Fields["stdout"].AsString())
	assert.Equal(t, int64(0), strct.Fields["exit_code"].AsInt())
}

func TestRunInlineCapturesNonZeroExitCode(t *testing.T) {
	r := New("")
	result, err := r.RunInline(context.Background(), `exit 7`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.AsStruct().Fields["exit_code"].AsInt())
}
