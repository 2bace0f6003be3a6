package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

// LoadCUE parses a CUE schema. Fields are declared under a top-level
// "fields" struct, in order, either as a bare type name or as a struct:
//
//	fields: {
//		id:   "LONG"
//		tags: {
//			type:        "STRING_MAP"
//			description: "free-form labels"
//			sub_fields: env: "deployment environment"
//		}
//	}
//
// sub_fields and sub_sub_fields map key names to descriptions.
func LoadCUE(data []byte) (*Schema, error) {
	v := cuecontext.New().CompileBytes(data)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &LoadError{Field: "fields", Message: "fields is required", Pos: v.Pos()}
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	s := New()
	for iter.Next() {
		f, err := parseCUEField(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		s.AddField(f)
	}
	return s, nil
}

func parseCUEField(name string, v cue.Value) (Field, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		t, err := parseCUEType(name, v)
		if err != nil {
			return Field{}, err
		}
		return NewField(name, t), nil

	case cue.StructKind:
		typeVal := v.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return Field{}, &LoadError{Field: name, Message: "type is required", Pos: v.Pos()}
		}
		t, err := parseCUEType(name, typeVal)
		if err != nil {
			return Field{}, err
		}

		description, hasDescription, err := optionalString(v, "description")
		if err != nil {
			return Field{}, err
		}
		subFields, hasSub, err := parseSubFields(v, "sub_fields")
		if err != nil {
			return Field{}, err
		}
		subSubFields, hasSubSub, err := parseSubFields(v, "sub_sub_fields")
		if err != nil {
			return Field{}, err
		}

		switch {
		case hasSubSub:
			return NewMapMapField(name, t, description, subFields, subSubFields), nil
		case hasSub:
			return NewMapField(name, t, description, subFields), nil
		case hasDescription:
			return NewDetailedField(name, t, description), nil
		default:
			return NewField(name, t), nil
		}

	default:
		return Field{}, &LoadError{
			Field:   name,
			Message: fmt.Sprintf("expected a type name or struct, got %s", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func parseCUEType(name string, v cue.Value) (typesystem.Type, error) {
	s, err := v.String()
	if err != nil {
		return typesystem.Unknown, formatCUEError(err)
	}
	t, err := typesystem.ParseType(s)
	if err != nil {
		return typesystem.Unknown, &LoadError{Field: name, Message: err.Error(), Pos: v.Pos()}
	}
	return t, nil
}

func optionalString(v cue.Value, path string) (string, bool, error) {
	sv := v.LookupPath(cue.ParsePath(path))
	if !sv.Exists() {
		return "", false, nil
	}
	s, err := sv.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

func parseSubFields(v cue.Value, path string) ([]SubField, bool, error) {
	sv := v.LookupPath(cue.ParsePath(path))
	if !sv.Exists() {
		return nil, false, nil
	}
	iter, err := sv.Fields()
	if err != nil {
		return nil, false, formatCUEError(err)
	}

	subFields := []SubField{}
	for iter.Next() {
		desc, err := iter.Value().String()
		if err != nil {
			return nil, false, formatCUEError(err)
		}
		subFields = append(subFields, SubField{Name: iter.Label(), Description: desc})
	}
	return subFields, true, nil
}

// LoadError reports a schema definition problem with its source position.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError converts the first CUE error into a LoadError with position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &LoadError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
