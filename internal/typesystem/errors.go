package typesystem

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them via errors.Is.
var (
	// ErrUnsupported indicates an operation is not defined for a value's type.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrIncomparable indicates two values have no defined ordering.
	ErrIncomparable = errors.New("incomparable types")

	// ErrCast indicates a forced cast could not convert a value.
	ErrCast = errors.New("cast failed")

	// ErrUnsupportedValue indicates a Go value has no raw representation.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// UnsupportedError reports an operation invoked on a type that does not support it.
type UnsupportedError struct {
	Op   string
	Type Type
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: not supported for type %s", e.Op, e.Type)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// IncomparableError reports a comparison between types with no defined ordering.
type IncomparableError struct {
	Left  Value
	Right Value
}

func (e *IncomparableError) Error() string {
	return fmt.Sprintf("compare: types are not comparable for %s with %s", e.Left, e.Right)
}

func (e *IncomparableError) Is(target error) bool {
	return target == ErrIncomparable || target == ErrUnsupported
}

// CastError reports a failed forced cast.
type CastError struct {
	From  Type
	To    Type
	Value any
	Err   error // underlying parse error, if any
}

func (e *CastError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cast %v from %s to %s: %v", e.Value, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("cast %v from %s to %s: no conversion", e.Value, e.From, e.To)
}

func (e *CastError) Unwrap() error { return e.Err }

func (e *CastError) Is(target error) bool {
	return target == ErrCast
}

// IsUnsupported reports whether err (or anything it wraps) is an unsupported-operation error.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsIncomparable reports whether err (or anything it wraps) is a comparison error.
func IsIncomparable(err error) bool {
	return errors.Is(err, ErrIncomparable)
}
