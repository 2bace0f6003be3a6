package typesystem

import (
	"math"
	"slices"
	"unicode/utf16"
)

// CompareStrings orders strings by UTF-16 code units, matching the ordering
// used by JVM producers. For ASCII this is plain lexicographic order; it
// differs from Go's byte order only for supplementary-plane characters.
func CompareStrings(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// SortedKeys returns the keys of m in CompareStrings order.
// Use it wherever map iteration must be deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareStrings)
	return keys
}

// RawEqual reports whether two raw values are deeply equal. Nil and empty
// containers of the same kind are equal, so values survive an encode/decode
// round trip unchanged. Floats compare by bit pattern with -0 folded into +0,
// which keeps NaN equal to itself and agrees with the canonical hash.
func RawEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !RawEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, present := y[k]
			if !present || !RawEqual(xv, yv) {
				return false
			}
		}
		return true
	case float32:
		y, ok := b.(float32)
		return ok && float32Bits(x) == float32Bits(y)
	case float64:
		y, ok := b.(float64)
		return ok && float64Bits(x) == float64Bits(y)
	case bool, int32, int64, string:
		return a == b
	default:
		return false
	}
}

func float32Bits(f float32) uint32 {
	if f == 0 {
		f = 0
	}
	return math.Float32bits(f)
}

func float64Bits(f float64) uint64 {
	if f == 0 {
		f = 0
	}
	return math.Float64bits(f)
}
