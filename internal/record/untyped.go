package record

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/roach88/lazyrecord/internal/lazy"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

// Untyped stores raw values. Its wire form is the container payload.
type Untyped struct {
	c *lazy.Container
}

var _ Record[any] = (*Untyped)(nil)

// NewUntyped creates an empty record.
func NewUntyped(opts ...Option) *Untyped {
	return &Untyped{c: buildOptions(opts).container()}
}

// UntypedFromBytes creates a record that decodes data on first access.
// The record takes ownership of data.
func UntypedFromBytes(data []byte, opts ...Option) *Untyped {
	r := NewUntyped(opts...)
	r.c.SetBytes(data)
	return r
}

// Get returns the raw value of field, or nil if absent.
func (r *Untyped) Get(field string) any {
	v, _ := r.c.Get(field)
	return v
}

// Lookup is the strict form of Get: if the record holds bytes that cannot be
// decoded it returns an error matching lazy.ErrUnreadable.
func (r *Untyped) Lookup(field string) (any, error) {
	if err := r.c.Read(); err != nil {
		return nil, fmt.Errorf("lookup %q: %w", field, err)
	}
	v, _ := r.c.Get(field)
	return v, nil
}

// Set stores v under field after converting it to its raw representation.
func (r *Untyped) Set(field string, v any) error {
	if err := checkField(field); err != nil {
		return err
	}
	raw, err := typesystem.Normalize(v)
	if err != nil {
		return fmt.Errorf("set %q: %w", field, err)
	}
	r.c.Set(field, raw)
	return nil
}

func (r *Untyped) Remove(field string) bool { return r.c.Remove(field) }

func (r *Untyped) GetAndRemove(field string) any {
	v, _ := r.c.GetAndRemove(field)
	return v
}

func (r *Untyped) HasField(field string) bool  { return r.c.Has(field) }
func (r *Untyped) FieldCount() int             { return r.c.Count() }
func (r *Untyped) All() iter.Seq2[string, any] { return r.c.All() }
func (r *Untyped) ForceRead() bool             { return r.c.ForceRead() }

// TypedGet wraps the raw value with its inferred type.
func (r *Untyped) TypedGet(field string) typesystem.Value {
	return typesystem.Wrap(r.Get(field))
}

// GetKey returns the entry key of a map field. A missing field or key yields nil.
func (r *Untyped) GetKey(field, key string) (any, error) {
	v := r.Get(field)
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &typesystem.UnsupportedError{Op: "getKey", Type: typesystem.TypeOf(v)}
	}
	return m[key], nil
}

// GetIndex returns element i of a list field. A missing field yields nil.
func (r *Untyped) GetIndex(field string, i int) (any, error) {
	v := r.Get(field)
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &typesystem.UnsupportedError{Op: "getIndex", Type: typesystem.TypeOf(v)}
	}
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(list))
	}
	return list[i], nil
}

// Copy returns an independent record with the same content.
func (r *Untyped) Copy() Record[any] {
	return &Untyped{c: r.c.Clone()}
}

// Equal reports whether other is an Untyped record with the same fields.
func (r *Untyped) Equal(other Record[any]) bool {
	o, ok := other.(*Untyped)
	if !ok || o == nil {
		return false
	}
	return r.c.Equal(o.c)
}

func (r *Untyped) Hash() uint64 { return r.c.Hash() }

// MarshalBinary returns the record's wire form. An untouched record returns
// the bytes it was created from.
func (r *Untyped) MarshalBinary() ([]byte, error) {
	return r.c.Bytes()
}

// UnmarshalBinary replaces the record's content with a copy of data, decoded
// on first access.
func (r *Untyped) UnmarshalBinary(data []byte) error {
	if r.c == nil {
		r.c = buildOptions(nil).container()
	}
	r.c.SetBytes(bytes.Clone(data))
	return nil
}
