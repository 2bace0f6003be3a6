package lazy

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/roach88/lazyrecord/internal/codec"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

// ErrUnreadable is returned by Read when the pending payload cannot be decoded.
var ErrUnreadable = errors.New("cannot read from record")

// Container is an ordered field mapping backed by an optional serialized payload.
type Container struct {
	keys   []string
	values map[string]any

	payload      []byte // undecoded bytes, valid while !materialized
	materialized bool
	cached       []byte // encoding of the current content, nil once modified

	codec  codec.Codec
	logger *slog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithCodec sets the codec used to decode payloads and encode content.
func WithCodec(c codec.Codec) Option {
	return func(ct *Container) {
		ct.codec = c
	}
}

// WithLogger sets the logger used to report unreadable payloads.
func WithLogger(l *slog.Logger) Option {
	return func(ct *Container) {
		ct.logger = l
	}
}

// New creates an empty, materialized container.
func New(opts ...Option) *Container {
	c := &Container{
		values:       map[string]any{},
		materialized: true,
		codec:        codec.Default,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromBytes creates a container that decodes data on first access.
// The container takes ownership of data.
func FromBytes(data []byte, opts ...Option) *Container {
	c := New(opts...)
	c.SetBytes(data)
	return c
}

// SetBytes discards the current content and replaces it with an undecoded
// payload. The container takes ownership of data.
func (c *Container) SetBytes(data []byte) {
	c.keys = nil
	c.values = map[string]any{}
	c.payload = data
	c.materialized = false
	c.cached = nil
}

// Reset discards all content, leaving an empty, materialized container.
func (c *Container) Reset() {
	c.keys = nil
	c.values = map[string]any{}
	c.payload = nil
	c.materialized = true
	c.cached = nil
}

// Materialized reports whether the payload has been decoded.
func (c *Container) Materialized() bool { return c.materialized }

// ForceRead decodes the pending payload, if any. It returns false when the
// payload could not be decoded, in which case the container is now empty.
func (c *Container) ForceRead() bool {
	return c.ensureMaterialized()
}

// Read is the strict form of ForceRead. A payload that cannot be decoded
// yields an error wrapping both ErrUnreadable and the decode error; the
// container is left empty as with ForceRead. Containers that are already
// materialized always read successfully.
func (c *Container) Read() error {
	if c.materialized {
		return nil
	}
	if err := c.decodePending(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return nil
}

func (c *Container) ensureMaterialized() bool {
	if c.materialized {
		return true
	}
	return c.decodePending() == nil
}

func (c *Container) decodePending() error {
	payload := c.payload
	c.payload = nil
	c.materialized = true

	fields, err := c.codec.Decode(payload)
	if err != nil {
		c.logger.Warn("unable to read record payload, treating as empty",
			"bytes", len(payload),
			"error", err,
		)
		c.keys = nil
		c.values = map[string]any{}
		c.cached = nil
		return err
	}

	c.keys = make([]string, 0, len(fields))
	c.values = make(map[string]any, len(fields))
	for _, f := range fields {
		c.put(f.Name, f.Value)
	}
	c.cached = payload
	return nil
}

func (c *Container) put(name string, v any) {
	if _, ok := c.values[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.values[name] = v
}

// Get returns the value stored under name.
func (c *Container) Get(name string) (any, bool) {
	c.ensureMaterialized()
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether name is present.
func (c *Container) Has(name string) bool {
	c.ensureMaterialized()
	_, ok := c.values[name]
	return ok
}

// Count returns the number of fields.
func (c *Container) Count() int {
	c.ensureMaterialized()
	return len(c.keys)
}

// Set stores v under name. An existing field keeps its position.
func (c *Container) Set(name string, v any) {
	c.ensureMaterialized()
	c.put(name, v)
	c.cached = nil
}

// Remove deletes name and reports whether it was present.
func (c *Container) Remove(name string) bool {
	_, ok := c.GetAndRemove(name)
	return ok
}

// GetAndRemove deletes name and returns its former value.
func (c *Container) GetAndRemove(name string) (any, bool) {
	c.ensureMaterialized()
	v, ok := c.values[name]
	if !ok {
		return nil, false
	}
	delete(c.values, name)
	if i := slices.Index(c.keys, name); i >= 0 {
		c.keys = slices.Delete(c.keys, i, i+1)
	}
	c.cached = nil
	return v, true
}

// Keys returns the field names in insertion order.
func (c *Container) Keys() []string {
	c.ensureMaterialized()
	return slices.Clone(c.keys)
}

// All iterates over a snapshot of the fields taken when All is called.
// Later mutations do not affect the iteration, which can be restarted.
func (c *Container) All() iter.Seq2[string, any] {
	c.ensureMaterialized()
	fields := c.fields()
	return func(yield func(string, any) bool) {
		for _, f := range fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

func (c *Container) fields() []codec.Field {
	fields := make([]codec.Field, len(c.keys))
	for i, k := range c.keys {
		fields[i] = codec.Field{Name: k, Value: c.values[k]}
	}
	return fields
}

// Bytes returns the serialized form. A container that was never read returns
// its payload unchanged; one that was read but not modified returns the bytes
// it was decoded from.
func (c *Container) Bytes() ([]byte, error) {
	if !c.materialized {
		return c.payload, nil
	}
	if c.cached != nil {
		return c.cached, nil
	}
	data, err := c.codec.Encode(c.fields())
	if err != nil {
		return nil, fmt.Errorf("lazy: encode: %w", err)
	}
	c.cached = data
	return data, nil
}

// Clone returns an independent copy. Field values are shared.
func (c *Container) Clone() *Container {
	return &Container{
		keys:         slices.Clone(c.keys),
		values:       cloneMap(c.values),
		payload:      bytes.Clone(c.payload),
		materialized: c.materialized,
		cached:       bytes.Clone(c.cached),
		codec:        c.codec,
		logger:       c.logger,
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports whether both containers hold the same fields and values,
// ignoring field order. Both are decoded first; an unreadable payload counts
// as empty.
func (c *Container) Equal(o *Container) bool {
	if c == o {
		return true
	}
	if o == nil {
		return false
	}
	c.ensureMaterialized()
	o.ensureMaterialized()

	if len(c.values) != len(o.values) {
		return false
	}
	for k, v := range c.values {
		ov, ok := o.values[k]
		if !ok || !typesystem.RawEqual(v, ov) {
			return false
		}
	}
	return true
}

// Hash returns an order-insensitive hash of the content, consistent with Equal.
func (c *Container) Hash() uint64 {
	c.ensureMaterialized()

	var h uint64
	for k, v := range c.values {
		fp, err := codec.Fingerprint(k, v)
		if err != nil {
			fp = xxhash.Sum64String(k)
		}
		h += fp
	}
	return h
}
