package schema

import (
	"fmt"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

// Kind says how much metadata a Field carries. Each kind includes everything
// the previous one does.
type Kind uint8

const (
	// Plain fields have a name and type only.
	Plain Kind = iota
	// Detailed fields add a description.
	Detailed
	// DetailedMap fields add descriptions of the keys of a map.
	DetailedMap
	// DetailedMapMap fields add descriptions of the keys of the inner maps.
	DetailedMapMap
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Detailed:
		return "detailed"
	case DetailedMap:
		return "detailed map"
	case DetailedMapMap:
		return "detailed map of maps"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// SubField describes one key of a map field.
type SubField struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Field is a named, typed schema entry with optional metadata.
type Field struct {
	Name string
	Type typesystem.Type
	Kind Kind

	// Description is set for Detailed kinds and above.
	Description string

	// SubFields is meaningful for DetailedMap and above; SubSubFields only for
	// DetailedMapMap. Either may be nil.
	SubFields    []SubField
	SubSubFields []SubField
}

// NewField returns a plain field.
func NewField(name string, t typesystem.Type) Field {
	return Field{Name: normalizeName(name), Type: t, Kind: Plain}
}

// NewDetailedField returns a field with a description.
func NewDetailedField(name string, t typesystem.Type, description string) Field {
	return Field{Name: normalizeName(name), Type: t, Kind: Detailed, Description: description}
}

// NewMapField returns a field describing the keys of a map.
func NewMapField(name string, t typesystem.Type, description string, subFields []SubField) Field {
	return Field{
		Name:        normalizeName(name),
		Type:        t,
		Kind:        DetailedMap,
		Description: description,
		SubFields:   subFields,
	}
}

// NewMapMapField returns a field describing the keys of a map of maps and of
// its inner maps.
func NewMapMapField(name string, t typesystem.Type, description string, subFields, subSubFields []SubField) Field {
	return Field{
		Name:         normalizeName(name),
		Type:         t,
		Kind:         DetailedMapMap,
		Description:  description,
		SubFields:    subFields,
		SubSubFields: subSubFields,
	}
}

func (f Field) HasDescription() bool  { return f.Kind >= Detailed }
func (f Field) HasSubFields() bool    { return f.Kind >= DetailedMap }
func (f Field) HasSubSubFields() bool { return f.Kind >= DetailedMapMap }

// Copy returns a field that shares no slices with f.
func (f Field) Copy() Field {
	f.SubFields = slices.Clone(f.SubFields)
	f.SubSubFields = slices.Clone(f.SubSubFields)
	return f
}

// normalizeName puts names in Unicode NFC so that canonically equivalent
// spellings refer to the same field.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}
