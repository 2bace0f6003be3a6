package typesystem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, NullValue, v)
	assert.Nil(t, v.Raw())
}

func TestNewValueNullDropsRaw(t *testing.T) {
	v := NewValue(Null, "ignored")
	assert.Equal(t, NullValue, v)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, NullValue, Wrap(nil))
	assert.Equal(t, ValueOfLong(7), Wrap(int64(7)))
	assert.Equal(t, TrueValue, Wrap(true))

	v := Wrap([]any{"a", "b"})
	assert.Equal(t, StringList, v.Type())
	assert.True(t, v.IsPrimitiveList())
	assert.True(t, v.IsList())
	assert.False(t, v.IsMap())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42::LONG", ValueOfLong(42).String())
	assert.Equal(t, "null::NULL", NullValue.String())
	assert.Equal(t, "true::BOOLEAN", TrueValue.String())
	assert.Equal(t, "1.5::DOUBLE", ValueOfDouble(1.5).String())
	assert.Equal(t, "[1, null]::INTEGER_LIST", NewValue(IntegerList, []any{int32(1), nil}).String())
	assert.Equal(t, "{a=1, b=2}::LONG_MAP", Wrap(map[string]any{"b": int64(2), "a": int64(1)}).String())
}

func TestValueSize(t *testing.T) {
	n, err := Wrap([]any{int32(1), int32(2), nil}).Size()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = Wrap(map[string]any{"a": "x"}).Size()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ValueOfString("héllo").Size()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = ValueOfLong(1).Size()
	assert.True(t, IsUnsupported(err))
}

func TestEqualVersusEqualTo(t *testing.T) {
	four := ValueOfInt(4)
	fourDouble := ValueOfDouble(4.0)

	assert.True(t, four.EqualTo(fourDouble))
	assert.True(t, fourDouble.EqualTo(four))
	assert.False(t, four.Equal(fourDouble))
	assert.True(t, four.Equal(ValueOfInt(4)))
}

func TestEqualContainers(t *testing.T) {
	a := Wrap(map[string]any{"x": []any{int64(1)}, "y": nil})
	b := Wrap(map[string]any{"y": nil, "x": []any{int64(1)}})
	assert.True(t, RawEqual(a.Raw(), b.Raw()))
	assert.False(t, RawEqual([]any{int64(1)}, []any{int32(1)}))
	assert.True(t, RawEqual([]any{}, []any(nil)))
}

func TestRawEqualFloats(t *testing.T) {
	nan := math.NaN()
	negZero := math.Copysign(0, -1)

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nan double", nan, nan, true},
		{"nan float", float32(nan), float32(nan), true},
		{"nan in list", []any{nan}, []any{nan}, true},
		{"nan in map", map[string]any{"x": nan}, map[string]any{"x": nan}, true},
		{"signed zeros", negZero, 0.0, true},
		{"signed zero floats", float32(negZero), float32(0), true},
		{"nan against number", nan, 1.0, false},
		{"double against float", 1.5, float32(1.5), false},
		{"distinct doubles", 1.5, 2.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RawEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, RawEqual(tt.b, tt.a))
		})
	}

	v := ValueOfDouble(nan)
	assert.True(t, v.Equal(v))
}

func TestEqualToIncomparable(t *testing.T) {
	assert.False(t, ValueOfString("true").EqualTo(TrueValue))
	assert.False(t, NullValue.EqualTo(ValueOfLong(0)))
	assert.True(t, NullValue.EqualTo(NullValue))
}
