package lazy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lazyrecord/internal/codec"
	"github.com/roach88/lazyrecord/internal/testutil"
)

func encoded(t *testing.T, fields ...codec.Field) []byte {
	t.Helper()
	data, err := codec.New().Encode(fields)
	require.NoError(t, err)
	return data
}

func TestNewIsEmptyAndMaterialized(t *testing.T) {
	c := New()
	assert.True(t, c.Materialized())
	assert.Equal(t, 0, c.Count())
	assert.False(t, c.Has("a"))
}

func TestSetPreservesInsertionOrder(t *testing.T) {
	c := New()
	c.Set("b", int64(1))
	c.Set("a", int64(2))
	c.Set("b", int64(3))

	assert.Equal(t, []string{"b", "a"}, c.Keys())
	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
}

func TestGetAndRemove(t *testing.T) {
	c := New()
	c.Set("a", "x")
	c.Set("b", "y")

	v, ok := c.GetAndRemove("a")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, []string{"b"}, c.Keys())

	_, ok = c.GetAndRemove("a")
	assert.False(t, ok)
	assert.True(t, c.Remove("b"))
	assert.False(t, c.Remove("b"))
	assert.Equal(t, 0, c.Count())
}

func TestPassThroughUntouched(t *testing.T) {
	data := encoded(t, codec.Field{Name: "a", Value: int64(1)})

	c := FromBytes(data)
	assert.False(t, c.Materialized())

	out, err := c.Bytes()
	require.NoError(t, err)
	assert.Same(t, &data[0], &out[0])
	assert.False(t, c.Materialized())
}

func TestPassThroughAfterRead(t *testing.T) {
	data := encoded(t,
		codec.Field{Name: "z", Value: "last"},
		codec.Field{Name: "a", Value: []any{int32(1), nil}},
	)

	c := FromBytes(data)
	assert.True(t, c.Has("z"))
	assert.True(t, c.Materialized())

	out, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestMutationInvalidatesCache(t *testing.T) {
	data := encoded(t, codec.Field{Name: "a", Value: int64(1)})

	c := FromBytes(data)
	c.Set("b", "new")

	out, err := c.Bytes()
	require.NoError(t, err)
	assert.NotEqual(t, data, out)

	back := FromBytes(out)
	assert.Equal(t, []string{"a", "b"}, back.Keys())
	v, _ := back.Get("b")
	assert.Equal(t, "new", v)

	// Removing an absent field is not a mutation.
	again, err := back.Bytes()
	require.NoError(t, err)
	back.Remove("missing")
	same, err := back.Bytes()
	require.NoError(t, err)
	assert.Equal(t, again, same)
}

func TestUnreadablePayloadDegradesToEmpty(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	c := FromBytes([]byte("foo"), WithLogger(logger))

	assert.False(t, c.Has("foo"))
	assert.True(t, c.Materialized())
	assert.Equal(t, 0, c.Count())
	assert.Contains(t, logs.String(), "unable to read record payload")

	// The container is usable afterwards.
	c.Set("a", int64(1))
	assert.Equal(t, 1, c.Count())
}

func TestForceReadReportsFailure(t *testing.T) {
	bad := FromBytes([]byte{0x01, 0x02}, WithLogger(testutil.DiscardLogger()))
	assert.False(t, bad.ForceRead())
	_, ok := bad.Get("a")
	assert.False(t, ok)

	// Once degraded, reads succeed on the empty content.
	assert.True(t, bad.ForceRead())

	good := FromBytes(encoded(t, codec.Field{Name: "a", Value: true}))
	assert.True(t, good.ForceRead())
	assert.True(t, good.ForceRead())
}

func TestReadStrict(t *testing.T) {
	c := FromBytes([]byte("foo"), WithLogger(testutil.DiscardLogger()))

	err := c.Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
	assert.True(t, codec.IsMalformed(err))

	assert.NoError(t, c.Read())
	assert.Equal(t, 0, c.Count())

	assert.NoError(t, New().Read())
}

func TestAllIteratesSnapshot(t *testing.T) {
	c := New()
	c.Set("a", int64(1))
	c.Set("b", int64(2))

	seq := c.All()
	c.Set("c", int64(3))

	var names []string
	for name := range seq {
		names = append(names, name)
	}
	assert.Equal(t, []string{"a", "b"}, names)

	names = names[:0]
	for name := range seq {
		names = append(names, name)
		break
	}
	assert.Equal(t, []string{"a"}, names)
}

func TestCloneIsIndependent(t *testing.T) {
	orig := FromBytes(encoded(t, codec.Field{Name: "a", Value: int64(1)}))
	clone := orig.Clone()

	clone.Set("b", int64(2))
	assert.Equal(t, 1, orig.Count())
	assert.Equal(t, 2, clone.Count())

	orig.Remove("a")
	assert.True(t, clone.Has("a"))
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := New()
	a.Set("x", int64(1))
	a.Set("y", map[string]any{"k": "v"})

	b := FromBytes(encoded(t,
		codec.Field{Name: "y", Value: map[string]any{"k": "v"}},
		codec.Field{Name: "x", Value: int64(1)},
	))

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.Equal(t, a.Hash(), b.Hash())

	b.Set("x", int32(1))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestCorruptedContainersAreEqual(t *testing.T) {
	a := FromBytes([]byte("foo"), WithLogger(testutil.DiscardLogger()))
	b := FromBytes([]byte("bar"), WithLogger(testutil.DiscardLogger()))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equal(New()))
}

func TestWithCodec(t *testing.T) {
	compressing := codec.New(codec.WithCompressionThreshold(1))
	c := New(WithCodec(compressing))
	c.Set("s", "some text that is long enough")

	data, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, codec.FormatZstd, data[0])

	back := FromBytes(data)
	v, ok := back.Get("s")
	require.True(t, ok)
	assert.Equal(t, "some text that is long enough", v)
}
