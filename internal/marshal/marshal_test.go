package marshal

import (
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/naaberr"
	"github.com/naab-lang/naab/internal/value"
)

func TestGuardRejectsExcessiveDepth(t *testing.T) {
	v := value.ListOf([]value.Value{value.ListOf([]value.Value{value.Int(1)})})
	err := Guard(v, Limits{MaxDepth: 1, MaxBytes: DefaultLimits.MaxBytes})
	require.Error(t, err)
	assert.True(t, naaberr.IsKind(err, naaberr.MarshalError))
}

func TestGuardRejectsOversizedPayload(t *testing.T) {
	v := value.Str(strings.Repeat("x", 1024))
	err := Guard(v, Limits{MaxDepth: 10, MaxBytes: 100})
	require.Error(t, err)
	assert.True(t, naaberr.IsKind(err, naaberr.MarshalError))
}

func TestGuardRejectsEmbeddedNUL(t *testing.T) {
	v := value.Str("abc\x00def")
	err := Guard(v, DefaultLimits)
	require.Error(t, err)
}

func TestGuardAcceptsWellFormedNesting(t *testing.T) {
	v := value.DictOf(map[string]value.Value{
		"a": value.Int(1),
		"b": value.ListOf([]value.Value{value.Str("ok"), value.Bool(true)}),
	}, []string{"a", "b"})
	require.NoError(t, Guard(v, DefaultLimits))
}

func TestToJSAndFromJSRoundTripScalarsAndCollections(t *testing.T) {
	rt := goja.New()
	original := value.DictOf(map[string]value.Value{
		"n":    value.Int(7),
		"name": value.Str("block"),
		"tags": value.ListOf([]value.Value{value.Str("a"), value.Str("b")}),
	}, []string{"n", "name", "tags"})

	jv, err := ToJS(rt, original, DefaultLimits)
	require.NoError(t, err)

	back, err := FromJS(rt, jv, DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, value.KindDict, back.Kind)
	assert.Equal(t, int64(7), back.AsDict().Entries["n"].AsInt())
	assert.Equal(t, "block", back.AsDict().Entries["name"].AsString())
}

func TestToJSRejectsForeignObjectFromAnotherExecutor(t *testing.T) {
	rt := goja.New()
	foreign := value.ForeignOf(&value.ForeignObject{DeclaredType: "PyObject", ExecutorTag: "python", Handle: 0})
	_, err := ToJS(rt, foreign, DefaultLimits)
	require.Error(t, err)
}

func TestToCABIRejectsCompositeKinds(t *testing.T) {
	_, err := ToCABI(value.ListOf([]value.Value{value.Int(1)}), DefaultLimits)
	require.Error(t, err)
}

func TestToCABIConvertsScalars(t *testing.T) {
	arg, err := ToCABI(value.Int(42), DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, int64(42), arg.Int)

	arg, err = ToCABI(value.Float(3.5), DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, 3.5, arg.Float)
}

func TestFromCABIRoundTrip(t *testing.T) {
	assert.Equal(t, int64(9), FromCABIInt(9).AsInt())
	assert.Equal(t, 1.5, FromCABIFloat(1.5).AsFloat())
	assert.True(t, FromCABIBool(1).AsBool())
	assert.False(t, FromCABIBool(0).AsBool())
}
