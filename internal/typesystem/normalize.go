package typesystem

import (
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"
)

// Normalize converts an arbitrary Go value into the raw representation used
// by records: bool, int32, int64, float32, float64, string, []any and
// map[string]any, or nil.
//
// Narrow integers (int8, int16, uint8, uint16) become int32; int, uint32 and
// in-range uint/uint64 become int64. Typed slices, arrays and string-keyed
// maps are converted element-wise. Pointers are dereferenced. Anything else
// fails with ErrUnsupportedValue, as do strings and map keys that are not
// valid UTF-8.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, int32, int64, float32, float64:
		return val, nil
	case string:
		if !utf8.ValidString(val) {
			return nil, fmt.Errorf("%w: invalid utf-8 string %q", ErrUnsupportedValue, val)
		}
		return val, nil
	case int:
		return int64(val), nil
	case int8:
		return int32(val), nil
	case int16:
		return int32(val), nil
	case uint8:
		return int32(val), nil
	case uint16:
		return int32(val), nil
	case uint32:
		return int64(val), nil
	case uint:
		return normalizeUnsigned(uint64(val))
	case uint64:
		return normalizeUnsigned(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			n, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			if !utf8.ValidString(k) {
				return nil, fmt.Errorf("%w: invalid utf-8 key %q", ErrUnsupportedValue, k)
			}
			n, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			if !utf8.ValidString(k) {
				return nil, fmt.Errorf("%w: invalid utf-8 key %q", ErrUnsupportedValue, k)
			}
			n, err := Normalize(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func normalizeUnsigned(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, u)
	}
	return int64(u), nil
}
