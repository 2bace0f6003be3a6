package codec

import (
	"errors"
	"fmt"
)

// ErrMalformed matches every decode failure.
var ErrMalformed = errors.New("malformed payload")

// DecodeError describes why a payload could not be decoded.
type DecodeError struct {
	Offset int    // byte offset into the frame where decoding stopped
	Reason string // human-readable cause
	Err    error  // underlying error, if any
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode at offset %d: %s", e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformed
}

// IsMalformed reports whether err (or anything it wraps) is a decode failure.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
