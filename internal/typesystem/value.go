package typesystem

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is an immutable (Type, raw value) pair.
//
// The raw value must be nil when the type is Null. For other types the raw
// value is expected to match the type; NewValue does not check this, so use
// Wrap, SafeCast or ForceCast when the shape of the input is not known.
//
// The zero Value is the Null value.
type Value struct {
	typ Type
	raw any
}

// Sentinel values.
var (
	NullValue    = Value{typ: Null}
	UnknownValue = Value{typ: Unknown}
	TrueValue    = Value{typ: Boolean, raw: true}
	FalseValue   = Value{typ: Boolean, raw: false}
)

// NewValue pairs raw with t without validation.
func NewValue(t Type, raw any) Value {
	if t == Null {
		return NullValue
	}
	return Value{typ: t, raw: raw}
}

// Wrap pairs raw with its inferred type. See TypeOf.
func Wrap(raw any) Value {
	return NewValue(TypeOf(raw), raw)
}

func ValueOfString(s string) Value  { return Value{typ: String, raw: s} }
func ValueOfInt(i int32) Value      { return Value{typ: Integer, raw: i} }
func ValueOfLong(l int64) Value     { return Value{typ: Long, raw: l} }
func ValueOfFloat(f float32) Value  { return Value{typ: Float, raw: f} }
func ValueOfDouble(d float64) Value { return Value{typ: Double, raw: d} }

// ValueOfBool returns TrueValue or FalseValue.
func ValueOfBool(b bool) Value {
	if b {
		return TrueValue
	}
	return FalseValue
}

// Type returns the value's type.
func (v Value) Type() Type { return v.typ }

// Raw returns the wrapped raw value.
func (v Value) Raw() any { return v.raw }

func (v Value) IsNull() bool          { return v.typ.IsNull() }
func (v Value) IsUnknown() bool       { return v.typ.IsUnknown() }
func (v Value) IsPrimitive() bool     { return v.typ.IsPrimitive() }
func (v Value) IsNumeric() bool       { return v.typ.IsNumeric() }
func (v Value) IsList() bool          { return v.typ.IsList() }
func (v Value) IsMap() bool           { return v.typ.IsMap() }
func (v Value) IsPrimitiveList() bool { return v.typ.IsPrimitiveList() }
func (v Value) IsComplexList() bool   { return v.typ.IsComplexList() }
func (v Value) IsPrimitiveMap() bool  { return v.typ.IsPrimitiveMap() }
func (v Value) IsComplexMap() bool    { return v.typ.IsComplexMap() }

// Size returns the length of a list, map or string (in runes).
func (v Value) Size() (int, error) {
	switch {
	case v.typ.IsList():
		if list, ok := v.raw.([]any); ok {
			return len(list), nil
		}
	case v.typ.IsMap():
		if m, ok := v.raw.(map[string]any); ok {
			return len(m), nil
		}
	case v.typ == String:
		if s, ok := v.raw.(string); ok {
			return utf8.RuneCountInString(s), nil
		}
	}
	return 0, &UnsupportedError{Op: "size", Type: v.typ}
}

// Equal reports whether both values have the same type and equal raw values.
// Integer 4 and Double 4.0 are not Equal; see EqualTo.
func (v Value) Equal(o Value) bool {
	return v.typ == o.typ && RawEqual(v.raw, o.raw)
}

// EqualTo reports whether v and o compare as equal. Numeric types are unified
// before comparison, so Integer 4 is EqualTo Double 4.0. Incomparable values
// are never EqualTo each other.
func (v Value) EqualTo(o Value) bool {
	c, err := v.Compare(o)
	return err == nil && c == 0
}

// ForceCast converts v to t, failing with a *CastError if no conversion exists.
func (v Value) ForceCast(t Type) (Value, error) {
	raw, err := forceCast(v.typ, t, v.raw)
	if err != nil {
		return UnknownValue, err
	}
	return NewValue(t, raw), nil
}

// String renders the value as "raw::TYPE", e.g. "42::LONG".
func (v Value) String() string {
	var sb strings.Builder
	writeRaw(&sb, v.raw)
	sb.WriteString("::")
	sb.WriteString(v.typ.String())
	return sb.String()
}

func writeRaw(sb *strings.Builder, raw any) {
	switch val := raw.(type) {
	case nil:
		sb.WriteString("null")
	case string:
		sb.WriteString(val)
	case []any:
		sb.WriteByte('[')
		for i, e := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRaw(sb, e)
		}
		sb.WriteByte(']')
	case map[string]any:
		sb.WriteByte('{')
		for i, k := range SortedKeys(val) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			writeRaw(sb, val[k])
		}
		sb.WriteByte('}')
	default:
		if s, ok := formatPrimitive(val); ok {
			sb.WriteString(s)
			return
		}
		sb.WriteString("?")
	}
}

// formatPrimitive renders a non-null primitive raw value as a string.
func formatPrimitive(raw any) (string, bool) {
	switch val := raw.(type) {
	case bool:
		return strconv.FormatBool(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case string:
		return val, true
	default:
		return "", false
	}
}
