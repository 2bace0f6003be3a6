package typesystem

import (
	"math"
	"strconv"
	"strings"
)

// Bounds of the float64 range that converts to int64 without overflow.
const (
	minInt64Float = -9.223372036854775808e18
	maxInt64Float = 9.223372036854775808e18 // exclusive
)

// SafeCast converts raw to t only when no information is lost: numeric
// values must round-trip exactly, strings must parse completely, and
// containers are cast element-wise with nil elements preserved. Any
// primitive may become a String.
//
// A nil raw value always yields NullValue. On failure SafeCast returns
// UnknownValue rather than an error.
func SafeCast(t Type, raw any) Value {
	if raw == nil {
		return NullValue
	}
	if t == Unknown {
		return Value{typ: Unknown, raw: raw}
	}
	out, ok := safeCast(t, raw)
	if !ok {
		return UnknownValue
	}
	return NewValue(t, out)
}

// ForceCastStringToNumber renders raw as a string and parses it as a Double.
// It returns UnknownValue when raw is nil or does not parse.
func ForceCastStringToNumber(raw any) Value {
	if raw == nil {
		return UnknownValue
	}
	var sb strings.Builder
	writeRaw(&sb, raw)
	f, err := strconv.ParseFloat(strings.TrimSpace(sb.String()), 64)
	if err != nil {
		return UnknownValue
	}
	return ValueOfDouble(f)
}

func safeCast(t Type, raw any) (any, bool) {
	switch {
	case t.IsList():
		list, ok := raw.([]any)
		if !ok {
			return nil, false
		}
		sub := t.SubType()
		out := make([]any, len(list))
		for i, e := range list {
			if e == nil {
				continue
			}
			c, ok := safeCast(sub, e)
			if !ok {
				return nil, false
			}
			out[i] = c
		}
		return out, true

	case t.IsMap():
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, false
		}
		sub := t.SubType()
		out := make(map[string]any, len(m))
		for k, e := range m {
			if e == nil {
				out[k] = nil
				continue
			}
			c, ok := safeCast(sub, e)
			if !ok {
				return nil, false
			}
			out[k] = c
		}
		return out, true

	case t == String:
		return formatPrimitive(raw)

	case t == Boolean:
		switch val := raw.(type) {
		case bool:
			return val, true
		case string:
			switch val {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
		return nil, false

	case t.IsNumeric():
		if s, ok := raw.(string); ok {
			return parseExact(t, s)
		}
		return numericExact(t, raw)
	}
	return nil, false
}

// numericExact converts a numeric raw value to t if the value round-trips.
func numericExact(t Type, raw any) (any, bool) {
	switch t {
	case Integer:
		i, ok := exactInt(raw)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return nil, false
		}
		return int32(i), true
	case Long:
		i, ok := exactInt(raw)
		if !ok {
			return nil, false
		}
		return i, true
	case Float:
		f, ok := exactFloat(raw)
		if !ok {
			return nil, false
		}
		f32 := float32(f)
		if float64(f32) != f && !math.IsNaN(f) {
			return nil, false
		}
		return f32, true
	case Double:
		f, ok := exactFloat(raw)
		if !ok {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

// exactInt returns raw as an int64 when it holds an integral value.
func exactInt(raw any) (int64, bool) {
	switch val := raw.(type) {
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case float32:
		return floatToInt(float64(val))
	case float64:
		return floatToInt(val)
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < minInt64Float || f >= maxInt64Float {
		return 0, false
	}
	return int64(f), true
}

// exactFloat returns raw as a float64 when no precision is lost.
func exactFloat(raw any) (float64, bool) {
	switch val := raw.(type) {
	case int32:
		return float64(val), true
	case int64:
		f := float64(val)
		if f >= maxInt64Float || int64(f) != val {
			return 0, false
		}
		return f, true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}

// parseExact parses s as t, requiring the entire string to be consumed.
func parseExact(t Type, s string) (any, bool) {
	switch t {
	case Integer:
		i, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, false
		}
		return int32(i), true
	case Long:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return i, true
	case Float:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, false
		}
		return float32(f), true
	case Double:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

// forceCast converts raw (declared as from) to t, truncating and parsing as
// needed.
func forceCast(from, t Type, raw any) (any, error) {
	fail := func(err error) (any, error) {
		return nil, &CastError{From: from, To: t, Value: raw, Err: err}
	}

	if raw == nil {
		if t == Null || t == Unknown {
			return nil, nil
		}
		return fail(nil)
	}

	switch {
	case t == Unknown:
		return raw, nil

	case t.IsList():
		list, ok := raw.([]any)
		if !ok {
			return fail(nil)
		}
		sub := t.SubType()
		out := make([]any, len(list))
		for i, e := range list {
			if e == nil {
				continue
			}
			c, err := forceCast(TypeOf(e), sub, e)
			if err != nil {
				return fail(err)
			}
			out[i] = c
		}
		return out, nil

	case t.IsMap():
		m, ok := raw.(map[string]any)
		if !ok {
			return fail(nil)
		}
		sub := t.SubType()
		out := make(map[string]any, len(m))
		for k, e := range m {
			if e == nil {
				out[k] = nil
				continue
			}
			c, err := forceCast(TypeOf(e), sub, e)
			if err != nil {
				return fail(err)
			}
			out[k] = c
		}
		return out, nil

	case t == String:
		if s, ok := formatPrimitive(raw); ok {
			return s, nil
		}
		return fail(nil)

	case t == Boolean:
		switch val := raw.(type) {
		case bool:
			return val, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			if err != nil {
				return fail(err)
			}
			return b, nil
		}
		if f, ok := toFloat64(raw); ok {
			return f != 0, nil
		}
		return fail(nil)

	case t.IsNumeric():
		return forceNumeric(t, raw, fail)
	}
	return fail(nil)
}

func forceNumeric(t Type, raw any, fail func(error) (any, error)) (any, error) {
	switch val := raw.(type) {
	case bool:
		if val {
			raw = int64(1)
		} else {
			raw = int64(0)
		}
	case string:
		s := strings.TrimSpace(val)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			raw = i
		} else {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fail(err)
			}
			raw = f
		}
	}

	switch t {
	case Float:
		if f, ok := toFloat64(raw); ok {
			return float32(f), nil
		}
	case Double:
		if f, ok := toFloat64(raw); ok {
			return f, nil
		}
	case Integer, Long:
		var i int64
		switch val := raw.(type) {
		case int32:
			i = int64(val)
		case int64:
			i = val
		default:
			f, ok := toFloat64(raw)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < minInt64Float || f >= maxInt64Float {
				return fail(nil)
			}
			i = int64(f)
		}
		if t == Integer {
			return int32(i), nil
		}
		return i, nil
	}
	return fail(nil)
}

// toFloat64 widens any numeric raw value.
func toFloat64(raw any) (float64, bool) {
	switch val := raw.(type) {
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}
