// Package typesystem defines the closed set of record value types and the
// typed Value wrapper used by typed records and schemas.
//
// Raw values are restricted to nil, bool, int32, int64, float32, float64,
// string, []any and map[string]any. Normalize converts other Go values into
// that form and refuses anything it cannot represent, including strings and
// map keys that are not valid UTF-8.
//
// # Casting
//
// SafeCast returns UnknownValue when a conversion is not possible.
// ForceCast reports the failure as a *CastError instead.
//
// # Comparison
//
// Compare is defined for identical primitive types and across numerics,
// where both sides are promoted to float64. Null only compares to Null; use
// NullsFirst or NullsLast to order mixed slices. Value.Equal requires the
// same type, while EqualTo compares numerically.
//
// Strings order by UTF-16 code units. RawEqual treats a NaN as equal to
// itself and -0 as equal to +0.
package typesystem
