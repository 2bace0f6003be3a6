// Package record provides the untyped and typed record variants built on the
// lazy container, along with providers and layered lateral views.
package record

import (
	"encoding"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"unicode/utf8"

	"github.com/roach88/lazyrecord/internal/codec"
	"github.com/roach88/lazyrecord/internal/lazy"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

var (
	// ErrEmptyField is returned when setting a field with an empty name.
	ErrEmptyField = errors.New("record: field name must not be empty")

	// ErrIndexOutOfRange is returned by GetIndex for an index outside the list.
	ErrIndexOutOfRange = errors.New("record: index out of range")

	// ErrNotSerializable is returned when marshaling a lateral view.
	ErrNotSerializable = errors.New("record: lateral views have no wire form")
)

// Record is the contract shared by every record variant. V is the type Get
// returns: raw values for Untyped, typesystem.Value for Typed.
//
// Records are not safe for concurrent use; Copy before handing one to
// another goroutine.
type Record[V any] interface {
	Get(field string) V
	Set(field string, v V) error
	Remove(field string) bool
	GetAndRemove(field string) V
	HasField(field string) bool
	FieldCount() int

	// All iterates over the fields present when All is called.
	All() iter.Seq2[string, V]

	// TypedGet returns the field as a typesystem.Value.
	TypedGet(field string) typesystem.Value

	Copy() Record[V]
	Equal(other Record[V]) bool
	Hash() uint64

	// ForceRead decodes any pending bytes, reporting false if they were
	// unreadable and the record is now empty.
	ForceRead() bool

	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Provider creates empty records of one variant.
type Provider[V any] interface {
	NewInstance() Record[V]
}

// UntypedProvider creates Untyped records.
type UntypedProvider struct {
	Options []Option
}

func (p UntypedProvider) NewInstance() Record[any] { return NewUntyped(p.Options...) }

// TypedProvider creates Typed records.
type TypedProvider struct {
	Options []Option
}

func (p TypedProvider) NewInstance() Record[typesystem.Value] { return NewTyped(p.Options...) }

type options struct {
	codec  codec.Codec
	logger *slog.Logger
}

// Option configures a record.
type Option func(*options)

// WithCodec sets the codec used for the record's wire form.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithLogger sets the logger used to report unreadable payloads.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{
		codec:  codec.Default,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) container() *lazy.Container {
	return lazy.New(lazy.WithCodec(o.codec), lazy.WithLogger(o.logger))
}

func checkField(field string) error {
	if field == "" {
		return ErrEmptyField
	}
	if !utf8.ValidString(field) {
		return fmt.Errorf("%w: invalid utf-8 field name %q", typesystem.ErrUnsupportedValue, field)
	}
	return nil
}
