package codec

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

func assertFieldsEqual(t *testing.T, want, got []Field) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.True(t, typesystem.RawEqual(want[i].Value, got[i].Value),
			"field %q: want %#v, got %#v", want[i].Name, want[i].Value, got[i].Value)
	}
}

// FuzzDecode checks that arbitrary input never panics, that every failure is
// reported as malformed, and that anything accepted re-encodes to the same
// fields.
func FuzzDecode(f *testing.F) {
	valid, err := New().Encode(sampleFields())
	require.NoError(f, err)
	compressed, err := New(WithCompressionThreshold(1)).Encode(sampleFields())
	require.NoError(f, err)

	f.Add([]byte(nil))
	f.Add([]byte("foo"))
	f.Add(valid)
	f.Add(compressed)
	f.Add(withBody([]byte{0x00}))
	f.Add(withBody([]byte{0x01, 0x01, 'a', tagList, 0x02, tagNull, tagTrue}))
	f.Add(withBody([]byte{0x01, 0x01, 0xff, 0x00}))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 1<<16 {
			t.Skip("input too large")
		}

		fields, err := New().Decode(data)
		if err != nil {
			assert.Nil(t, fields)
			assert.True(t, IsMalformed(err), "unexpected error kind: %v", err)
			return
		}

		again, err := New().Encode(fields)
		require.NoError(t, err)
		back, err := New().Decode(again)
		require.NoError(t, err)
		assertFieldsEqual(t, fields, back)
	})
}

// FuzzRoundTrip checks that Encode either refuses its input or produces bytes
// that Decode turns back into the same fields, with and without compression.
func FuzzRoundTrip(f *testing.F) {
	f.Add("name", "lazy", int64(42), 1.5)
	f.Add("", "", int64(0), 0.0)
	f.Add("ключ", "値", int64(math.MinInt64), math.Inf(-1))
	f.Add("a\xff", "ok", int64(-1), math.NaN())
	f.Add("k", "ok\xc3\x28", int64(math.MaxInt32)+1, math.Copysign(0, -1))

	codecs := map[string]*Binary{
		"raw":  New(),
		"zstd": New(WithCompressionThreshold(1)),
	}

	f.Fuzz(func(t *testing.T, name, s string, i int64, d float64) {
		fields := []Field{
			{Name: "k:" + name, Value: s},
			{Name: "i", Value: i},
			{Name: "d", Value: d},
			{Name: "f", Value: float32(d)},
			{Name: "l", Value: []any{s, i, nil, d}},
			{Name: "m", Value: map[string]any{name: s, "n": []any{}}},
		}
		valid := utf8.ValidString(name) && utf8.ValidString(s)

		for label, c := range codecs {
			data, err := c.Encode(fields)
			if !valid {
				require.Error(t, err, label)
				assert.True(t, errors.Is(err, typesystem.ErrUnsupportedValue), label)
				continue
			}
			require.NoError(t, err, label)

			got, err := c.Decode(data)
			require.NoError(t, err, label)
			assertFieldsEqual(t, fields, got)
		}
	})
}
