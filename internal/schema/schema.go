// Package schema describes the fields a record is expected to carry. A schema
// documents names and declared types; records are never required to conform.
package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

var (
	// ErrFieldNotFound is returned when changing a field that does not exist.
	ErrFieldNotFound = errors.New("schema: field not found")

	// ErrMissingMetadata is returned when changing metadata a field's kind
	// does not carry, e.g. sub-fields of a plain field.
	ErrMissingMetadata = errors.New("schema: field does not carry this metadata")
)

// Schema is an ordered set of fields keyed by name.
type Schema struct {
	order  []string
	fields map[string]Field
}

// New creates a schema from fields, keeping their order. A later field with
// the same name replaces an earlier one in place.
func New(fields ...Field) *Schema {
	s := &Schema{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		s.AddField(f)
	}
	return s
}

// AddField adds f, or replaces the field of the same name in place.
func (s *Schema) AddField(f Field) *Schema {
	f.Name = normalizeName(f.Name)
	if _, ok := s.fields[f.Name]; !ok {
		s.order = append(s.order, f.Name)
	}
	s.fields[f.Name] = f
	return s
}

// Add adds a plain field.
func (s *Schema) Add(name string, t typesystem.Type) *Schema {
	return s.AddField(NewField(name, t))
}

// RemoveField removes name if present.
func (s *Schema) RemoveField(name string) *Schema {
	name = normalizeName(name)
	if _, ok := s.fields[name]; !ok {
		return s
	}
	delete(s.fields, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return s
}

// Field returns a copy of the named field.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[normalizeName(name)]
	if !ok {
		return Field{}, false
	}
	return f.Copy(), true
}

func (s *Schema) HasField(name string) bool {
	_, ok := s.fields[normalizeName(name)]
	return ok
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.order) }

// TypeOf returns the declared type of name, or Null if it is not declared.
func (s *Schema) TypeOf(name string) typesystem.Type {
	f, ok := s.fields[normalizeName(name)]
	if !ok {
		return typesystem.Null
	}
	return f.Type
}

// ChangeFieldType changes the type of an existing field, keeping its position
// and metadata.
func (s *Schema) ChangeFieldType(name string, t typesystem.Type) error {
	return s.change(name, "type", Plain, func(f *Field) { f.Type = t })
}

// ChangeDescription changes the description of a Detailed (or richer) field.
func (s *Schema) ChangeDescription(name, description string) error {
	return s.change(name, "description", Detailed, func(f *Field) { f.Description = description })
}

// ChangeSubFields replaces the sub-fields of a DetailedMap (or richer) field.
func (s *Schema) ChangeSubFields(name string, subFields []SubField) error {
	return s.change(name, "sub-fields", DetailedMap, func(f *Field) { f.SubFields = slices.Clone(subFields) })
}

// ChangeSubSubFields replaces the sub-sub-fields of a DetailedMapMap field.
func (s *Schema) ChangeSubSubFields(name string, subSubFields []SubField) error {
	return s.change(name, "sub-sub-fields", DetailedMapMap, func(f *Field) { f.SubSubFields = slices.Clone(subSubFields) })
}

func (s *Schema) change(name, what string, need Kind, apply func(*Field)) error {
	name = normalizeName(name)
	f, ok := s.fields[name]
	if !ok {
		return fmt.Errorf("change %s of %q: %w", what, name, ErrFieldNotFound)
	}
	if f.Kind < need {
		return fmt.Errorf("change %s of %q (%s field): %w", what, name, f.Kind, ErrMissingMetadata)
	}
	apply(&f)
	s.fields[name] = f
	return nil
}

// Copy returns a deep copy.
func (s *Schema) Copy() *Schema {
	return New(s.Fields()...)
}

// Fields returns copies of all fields in order.
func (s *Schema) Fields() []Field {
	return s.fieldsOf(Plain)
}

// DetailedFields returns the fields that carry a description.
func (s *Schema) DetailedFields() []Field {
	return s.fieldsOf(Detailed)
}

// MapFields returns the fields that carry sub-field metadata.
func (s *Schema) MapFields() []Field {
	return s.fieldsOf(DetailedMap)
}

// MapMapFields returns the fields that carry sub-sub-field metadata.
func (s *Schema) MapMapFields() []Field {
	return s.fieldsOf(DetailedMapMap)
}

func (s *Schema) fieldsOf(atLeast Kind) []Field {
	out := make([]Field, 0, len(s.order))
	for _, name := range s.order {
		if f := s.fields[name]; f.Kind >= atLeast {
			out = append(out, f.Copy())
		}
	}
	return out
}

// Types returns the distinct declared types in ascending order.
func (s *Schema) Types() []typesystem.Type {
	types := make([]typesystem.Type, 0, len(s.fields))
	for _, f := range s.fields {
		types = append(types, f.Type)
	}
	slices.Sort(types)
	return slices.Compact(types)
}
