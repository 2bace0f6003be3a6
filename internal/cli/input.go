package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lazyrecord/internal/record"
	"github.com/roach88/lazyrecord/internal/schema"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

// errInvalidValue marks input values that cannot be stored as declared.
var errInvalidValue = errors.New("invalid field value")

// inputField is one top-level entry of an input document.
type inputField struct {
	Name  string
	Value any
}

// loadDocument reads a JSON or YAML object from path. Top-level key order
// is preserved and values are normalized to record raw values.
func loadDocument(path string) ([]inputField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return parseDocument(data)
}

func parseDocument(data []byte) ([]inputField, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("input document is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping", root.Line)
	}

	fields := make([]inputField, 0, len(root.Content)/2)
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, node := root.Content[i], root.Content[i+1]
		if seen[key.Value] {
			return nil, fmt.Errorf("line %d: duplicate field %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: field %q: %w", node.Line, key.Value, err)
		}
		raw, err := typesystem.Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: field %q: %w", node.Line, key.Value, err)
		}
		fields = append(fields, inputField{Name: key.Value, Value: raw})
	}
	return fields, nil
}

// buildUntyped stores fields in an untyped record, in document order.
func buildUntyped(fields []inputField, opts []record.Option) (*record.Untyped, error) {
	r := record.NewUntyped(opts...)
	for _, f := range fields {
		if err := r.Set(f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// buildTyped stores fields in a typed record. Fields declared in s are
// safely cast to their declared type; others keep their inferred type.
// s may be nil.
func buildTyped(fields []inputField, s *schema.Schema, opts []record.Option) (*record.Typed, error) {
	r := record.NewTyped(opts...)
	for _, f := range fields {
		declared := typesystem.Unknown
		if s != nil && s.HasField(f.Name) {
			declared = s.TypeOf(f.Name)
		}

		var err error
		switch {
		case declared == typesystem.Unknown:
			err = r.SetRaw(f.Name, f.Value)
		case f.Value == nil:
			err = r.Set(f.Name, typesystem.NewValue(declared, nil))
		default:
			v := typesystem.SafeCast(declared, f.Value)
			if v.IsUnknown() {
				return nil, fmt.Errorf("%w: field %q does not fit %s", errInvalidValue, f.Name, declared)
			}
			err = r.Set(f.Name, v)
		}
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}
