package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"iter"
	"log/slog"
	"maps"

	"github.com/roach88/lazyrecord/internal/codec"
	"github.com/roach88/lazyrecord/internal/lazy"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

// Typed stores raw values alongside a declared type per field.
//
// Its wire form is a uvarint length, a codec-encoded table mapping field
// names to type names, then the container payload. Both parts are decoded on
// first access, and an untouched record marshals back to the same bytes.
type Typed struct {
	c     *lazy.Container
	types map[string]typesystem.Type

	// table is the encoded type table for types, or the pending table when
	// !typesLoaded. nil once types change.
	table       []byte
	typesLoaded bool

	codec  codec.Codec
	logger *slog.Logger
}

var _ Record[typesystem.Value] = (*Typed)(nil)

// NewTyped creates an empty record.
func NewTyped(opts ...Option) *Typed {
	o := buildOptions(opts)
	return &Typed{
		c:           o.container(),
		types:       map[string]typesystem.Type{},
		typesLoaded: true,
		codec:       o.codec,
		logger:      o.logger,
	}
}

// TypedFromBytes creates a record that decodes data on first access.
// The record takes ownership of data.
func TypedFromBytes(data []byte, opts ...Option) *Typed {
	r := NewTyped(opts...)
	r.setBytes(data)
	return r
}

func (r *Typed) setBytes(data []byte) {
	r.types = map[string]typesystem.Type{}
	r.typesLoaded = false

	n, k := binary.Uvarint(data)
	if k <= 0 || n > uint64(len(data)-k) {
		// Leave the table pending and invalid so the first access reports it.
		r.table = nil
		r.c.Reset()
		return
	}
	end := k + int(n)
	r.table = data[k:end]
	r.c.SetBytes(data[end:])
}

// loadTypes decodes a pending type table. A table that cannot be decoded
// leaves the whole record empty.
func (r *Typed) loadTypes() error {
	if r.typesLoaded {
		return nil
	}
	r.typesLoaded = true

	types, err := decodeTypeTable(r.codec, r.table)
	if err != nil {
		r.logger.Warn("unable to read record type table, treating as empty",
			"bytes", len(r.table),
			"error", err,
		)
		r.dropTypes()
		r.c.Reset()
		return err
	}
	r.types = types
	return nil
}

func decodeTypeTable(c codec.Codec, table []byte) (map[string]typesystem.Type, error) {
	fields, err := c.Decode(table)
	if err != nil {
		return nil, err
	}
	types := make(map[string]typesystem.Type, len(fields))
	for _, f := range fields {
		name, ok := f.Value.(string)
		if !ok {
			return nil, fmt.Errorf("type table: field %q: type name is %T", f.Name, f.Value)
		}
		t, err := typesystem.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("type table: field %q: %w", f.Name, err)
		}
		types[f.Name] = t
	}
	return types, nil
}

// container returns the field container once both parts are decoded.
func (r *Typed) container() *lazy.Container {
	r.ForceRead()
	return r.c
}

// dropTypes clears declared types after the fields turned out unreadable.
func (r *Typed) dropTypes() {
	r.types = map[string]typesystem.Type{}
	r.table = nil
}

func (r *Typed) wrap(field string, raw any) typesystem.Value {
	if raw == nil {
		return typesystem.NullValue
	}
	t, ok := r.types[field]
	if !ok || t == typesystem.Null {
		t = typesystem.Unknown
	}
	return typesystem.NewValue(t, raw)
}

// Get returns the field with its declared type. Absent fields and nil values
// are NullValue; fields without a declared type are Unknown.
func (r *Typed) Get(field string) typesystem.Value {
	raw, _ := r.container().Get(field)
	return r.wrap(field, raw)
}

// Lookup is the strict form of Get: if the record holds bytes that cannot be
// decoded it returns an error matching lazy.ErrUnreadable.
func (r *Typed) Lookup(field string) (typesystem.Value, error) {
	if err := r.loadTypes(); err != nil {
		return typesystem.NullValue, fmt.Errorf("lookup %q: %w: %w", field, lazy.ErrUnreadable, err)
	}
	if err := r.c.Read(); err != nil {
		r.dropTypes()
		return typesystem.NullValue, fmt.Errorf("lookup %q: %w", field, err)
	}
	return r.Get(field), nil
}

// TypedGet is Get.
func (r *Typed) TypedGet(field string) typesystem.Value { return r.Get(field) }

// Set stores v and its type under field.
func (r *Typed) Set(field string, v typesystem.Value) error {
	if err := checkField(field); err != nil {
		return err
	}
	raw, err := typesystem.Normalize(v.Raw())
	if err != nil {
		return fmt.Errorf("set %q: %w", field, err)
	}
	c := r.container()
	c.Set(field, raw)
	r.types[field] = v.Type()
	r.table = nil
	return nil
}

// SetRaw normalizes v and stores it with its inferred type.
func (r *Typed) SetRaw(field string, v any) error {
	raw, err := typesystem.Normalize(v)
	if err != nil {
		return fmt.Errorf("set %q: %w", field, err)
	}
	return r.Set(field, typesystem.Wrap(raw))
}

func (r *Typed) SetString(field string, s string) error {
	return r.Set(field, typesystem.ValueOfString(s))
}

func (r *Typed) SetBool(field string, b bool) error {
	return r.Set(field, typesystem.ValueOfBool(b))
}

func (r *Typed) SetInt(field string, i int32) error {
	return r.Set(field, typesystem.ValueOfInt(i))
}

func (r *Typed) SetLong(field string, l int64) error {
	return r.Set(field, typesystem.ValueOfLong(l))
}

func (r *Typed) SetFloat(field string, f float32) error {
	return r.Set(field, typesystem.ValueOfFloat(f))
}

func (r *Typed) SetDouble(field string, d float64) error {
	return r.Set(field, typesystem.ValueOfDouble(d))
}

// SetNull stores a typed absent value.
func (r *Typed) SetNull(field string) error {
	return r.Set(field, typesystem.NullValue)
}

func (r *Typed) Remove(field string) bool {
	_, ok := r.remove(field)
	return ok
}

func (r *Typed) GetAndRemove(field string) typesystem.Value {
	v, _ := r.remove(field)
	return v
}

func (r *Typed) remove(field string) (typesystem.Value, bool) {
	raw, ok := r.container().GetAndRemove(field)
	if !ok {
		return typesystem.NullValue, false
	}
	v := r.wrap(field, raw)
	delete(r.types, field)
	r.table = nil
	return v, true
}

func (r *Typed) HasField(field string) bool { return r.container().Has(field) }
func (r *Typed) FieldCount() int            { return r.container().Count() }

// ForceRead decodes the type table and fields. If either is unreadable the
// record is left empty and ForceRead returns false.
func (r *Typed) ForceRead() bool {
	typesOK := r.loadTypes() == nil
	if !r.c.ForceRead() {
		r.dropTypes()
		return false
	}
	return typesOK
}

// Types returns a copy of the declared field types.
func (r *Typed) Types() map[string]typesystem.Type {
	r.container()
	return maps.Clone(r.types)
}

// All iterates over the fields present when All is called.
func (r *Typed) All() iter.Seq2[string, typesystem.Value] {
	fields := r.container().All()
	types := maps.Clone(r.types)
	return func(yield func(string, typesystem.Value) bool) {
		for name, raw := range fields {
			v := typesystem.NullValue
			if raw != nil {
				t, ok := types[name]
				if !ok || t == typesystem.Null {
					t = typesystem.Unknown
				}
				v = typesystem.NewValue(t, raw)
			}
			if !yield(name, v) {
				return
			}
		}
	}
}

// GetKey returns entry key of a map field, typed with the map's element
// type. Missing fields and keys yield NullValue.
func (r *Typed) GetKey(field, key string) (typesystem.Value, error) {
	v := r.Get(field)
	if v.IsNull() {
		return typesystem.NullValue, nil
	}
	m, ok := v.Raw().(map[string]any)
	if !ok || !(v.IsMap() || v.IsUnknown()) {
		return typesystem.NullValue, &typesystem.UnsupportedError{Op: "getKey", Type: v.Type()}
	}
	return subValue(v.Type(), m[key]), nil
}

// GetIndex returns element i of a list field, typed with the list's element
// type. A missing field yields NullValue.
func (r *Typed) GetIndex(field string, i int) (typesystem.Value, error) {
	v := r.Get(field)
	if v.IsNull() {
		return typesystem.NullValue, nil
	}
	list, ok := v.Raw().([]any)
	if !ok || !(v.IsList() || v.IsUnknown()) {
		return typesystem.NullValue, &typesystem.UnsupportedError{Op: "getIndex", Type: v.Type()}
	}
	if i < 0 || i >= len(list) {
		return typesystem.NullValue, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(list))
	}
	return subValue(v.Type(), list[i]), nil
}

func subValue(container typesystem.Type, raw any) typesystem.Value {
	if raw == nil {
		return typesystem.NullValue
	}
	if container.IsUnknown() {
		return typesystem.Wrap(raw)
	}
	return typesystem.NewValue(container.SubType(), raw)
}

// Copy returns an independent record with the same content and types.
func (r *Typed) Copy() Record[typesystem.Value] {
	return &Typed{
		c:           r.c.Clone(),
		types:       maps.Clone(r.types),
		table:       bytes.Clone(r.table),
		typesLoaded: r.typesLoaded,
		codec:       r.codec,
		logger:      r.logger,
	}
}

// Equal reports whether other is a Typed record with the same fields and
// values. Declared types are not compared, so records that differ only in a
// declared type are equal.
func (r *Typed) Equal(other Record[typesystem.Value]) bool {
	o, ok := other.(*Typed)
	if !ok || o == nil {
		return false
	}
	if r == o {
		return true
	}
	return r.container().Equal(o.container())
}

func (r *Typed) Hash() uint64 { return r.container().Hash() }

// MarshalBinary returns the record's wire form. An untouched record returns
// the bytes it was created from.
func (r *Typed) MarshalBinary() ([]byte, error) {
	if r.table == nil {
		c := r.container()
		fields := make([]codec.Field, 0, len(r.types))
		for _, name := range c.Keys() {
			fields = append(fields, codec.Field{Name: name, Value: r.types[name].String()})
		}
		table, err := r.codec.Encode(fields)
		if err != nil {
			return nil, fmt.Errorf("marshal type table: %w", err)
		}
		r.table = table
	}

	body, err := r.c.Bytes()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, binary.MaxVarintLen64+len(r.table)+len(body))
	out = binary.AppendUvarint(out, uint64(len(r.table)))
	out = append(out, r.table...)
	return append(out, body...), nil
}

// UnmarshalBinary replaces the record's content with a copy of data, decoded
// on first access.
func (r *Typed) UnmarshalBinary(data []byte) error {
	if r.c == nil {
		*r = *NewTyped()
	}
	r.setBytes(bytes.Clone(data))
	return nil
}
