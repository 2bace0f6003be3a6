package typesystem

import (
	"cmp"
	"slices"
)

// Compare orders v relative to o.
//
// Values are comparable when CanCompare holds for their types. Two Nulls are
// equal. Mixed numeric types are both promoted to float64. Strings compare
// with CompareStrings. A Null paired with a non-Null value is not comparable
// here; use NullsFirst or NullsLast for that.
//
// Incomparable pairs return an *IncomparableError.
func (v Value) Compare(o Value) (int, error) {
	if !CanCompare(v.typ, o.typ) {
		return 0, &IncomparableError{Left: v, Right: o}
	}
	if v.typ == Null {
		return 0, nil
	}

	if v.typ != o.typ {
		a, okA := toFloat64(v.raw)
		b, okB := toFloat64(o.raw)
		if !okA || !okB {
			return 0, &IncomparableError{Left: v, Right: o}
		}
		return cmp.Compare(a, b), nil
	}

	var (
		c  int
		ok bool
	)
	switch v.typ {
	case Boolean:
		c, ok = compareAs(v.raw, o.raw, func(a, b bool) int {
			switch {
			case a == b:
				return 0
			case !a:
				return -1
			default:
				return 1
			}
		})
	case Integer:
		c, ok = compareAs(v.raw, o.raw, cmp.Compare[int32])
	case Long:
		c, ok = compareAs(v.raw, o.raw, cmp.Compare[int64])
	case Float:
		c, ok = compareAs(v.raw, o.raw, cmp.Compare[float32])
	case Double:
		c, ok = compareAs(v.raw, o.raw, cmp.Compare[float64])
	case String:
		c, ok = compareAs(v.raw, o.raw, CompareStrings)
	}
	if !ok {
		return 0, &IncomparableError{Left: v, Right: o}
	}
	return c, nil
}

func compareAs[T any](a, b any, compare func(T, T) int) (int, bool) {
	x, okX := a.(T)
	y, okY := b.(T)
	if !okX || !okY {
		return 0, false
	}
	return compare(x, y), true
}

// Comparator orders two values or reports why it cannot.
type Comparator func(a, b Value) (int, error)

// Natural is the plain Compare ordering.
func Natural() Comparator {
	return func(a, b Value) (int, error) { return a.Compare(b) }
}

// NullsFirst orders Null values before every non-Null value and otherwise
// defers to Compare.
func NullsFirst() Comparator {
	return func(a, b Value) (int, error) {
		an, bn := a.IsNull(), b.IsNull()
		if an != bn {
			if an {
				return -1, nil
			}
			return 1, nil
		}
		return a.Compare(b)
	}
}

// NullsLast orders Null values after every non-Null value and otherwise
// defers to Compare.
func NullsLast() Comparator {
	return func(a, b Value) (int, error) {
		an, bn := a.IsNull(), b.IsNull()
		if an != bn {
			if an {
				return 1, nil
			}
			return -1, nil
		}
		return a.Compare(b)
	}
}

// Reversed inverts the ordering of c.
func (c Comparator) Reversed() Comparator {
	return func(a, b Value) (int, error) {
		r, err := c(a, b)
		return -r, err
	}
}

// SortValues stably sorts vals in place with c. If any comparison fails the
// first error is returned and the order of vals is unspecified.
func SortValues(vals []Value, c Comparator) error {
	var firstErr error
	slices.SortStableFunc(vals, func(a, b Value) int {
		r, err := c(a, b)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return r
	})
	return firstErr
}
