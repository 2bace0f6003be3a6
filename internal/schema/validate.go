package schema

import (
	"fmt"

	"github.com/roach88/lazyrecord/internal/record"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

// Mismatch is a record field whose value does not fit its declared type.
type Mismatch struct {
	Field    string
	Declared typesystem.Type
	Actual   typesystem.Type
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: declared %s, got %s", m.Field, m.Declared, m.Actual)
}

// Validate reports declared fields of r whose values neither have the
// declared type nor safely cast to it. Absent fields, null values and fields
// declared Unknown are not checked; undeclared fields are ignored.
//
// Record field names match declared names after NFC normalization, so a
// record keyed by a decomposed name is still checked.
func Validate[V any](s *Schema, r record.Record[V]) []Mismatch {
	var (
		mismatches []Mismatch
		names      map[string]string
	)
	for _, f := range s.Fields() {
		if f.Type == typesystem.Unknown {
			continue
		}
		name := f.Name
		if !r.HasField(name) {
			if names == nil {
				names = normalizedNames(r)
			}
			actual, ok := names[f.Name]
			if !ok {
				continue
			}
			name = actual
		}
		v := r.TypedGet(name)
		if v.IsNull() || v.Type() == f.Type {
			continue
		}
		if typesystem.SafeCast(f.Type, v.Raw()).IsUnknown() {
			mismatches = append(mismatches, Mismatch{Field: f.Name, Declared: f.Type, Actual: v.Type()})
		}
	}
	return mismatches
}

// normalizedNames maps the NFC form of each field name in r to the name as
// stored. When two stored names share a form, the first one seen wins.
func normalizedNames[V any](r record.Record[V]) map[string]string {
	names := make(map[string]string, r.FieldCount())
	for name := range r.All() {
		key := normalizeName(name)
		if _, seen := names[key]; !seen {
			names[key] = name
		}
	}
	return names
}
