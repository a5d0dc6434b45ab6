package marshal

import (
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/value"
)

func TestToPyConvertsScalars(t *testing.T) {
	obj, err := ToPy(value.Int(5), DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, py.Int(5), obj)

	obj, err = ToPy(value.Str("hi"), DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, py.String("hi"), obj)

	obj, err = ToPy(value.Bool(true), DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, py.True, obj)

	obj, err = ToPy(value.Null(), DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, py.None, obj)
}

func TestToPyAndFromPyRoundTripList(t *testing.T) {
	v := value.ListOf([]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	obj, err := ToPy(v, DefaultLimits)
	require.NoError(t, err)

	back, err := FromPy(obj, DefaultLimits)
	require.NoError(t, err)
	require.Equal(t, value.KindList, back.Kind)
	assert.Len(t, back.AsList().Elements, 3)
	assert.Equal(t, int64(2), back.AsList().Elements[1].AsInt())
}

func TestToPyRejectsForeignObjectFromAnotherExecutor(t *testing.T) {
	foreign := value.ForeignOf(&value.ForeignObject{DeclaredType: "JSObject", ExecutorTag: "js", Handle: nil})
	_, err := ToPy(foreign, DefaultLimits)
	require.Error(t, err)
}
