package schema

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

// yamlDocument is the YAML layout of a schema:
//
//	fields:
//	  - name: id
//	    type: LONG
//	  - name: tags
//	    type: STRING_MAP
//	    description: free-form labels
//	    sub_fields:
//	      - name: env
//	        description: deployment environment
type yamlDocument struct {
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name         string      `yaml:"name"`
	Type         string      `yaml:"type"`
	Description  *string     `yaml:"description,omitempty"`
	SubFields    *[]SubField `yaml:"sub_fields,omitempty"`
	SubSubFields *[]SubField `yaml:"sub_sub_fields,omitempty"`
}

// LoadYAMLFile reads and parses a YAML schema file.
func LoadYAMLFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return LoadYAML(data)
}

// LoadYAML parses a YAML schema. Unknown keys are rejected.
func LoadYAML(data []byte) (*Schema, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	s := New()
	for i, yf := range doc.Fields {
		f, err := yf.field()
		if err != nil {
			return nil, fmt.Errorf("fields[%d]: %w", i, err)
		}
		if s.HasField(f.Name) {
			return nil, fmt.Errorf("fields[%d]: duplicate field %q", i, f.Name)
		}
		s.AddField(f)
	}
	return s, nil
}

func (yf yamlField) field() (Field, error) {
	if yf.Name == "" {
		return Field{}, fmt.Errorf("name is required")
	}
	t, err := typesystem.ParseType(yf.Type)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", yf.Name, err)
	}

	var description string
	if yf.Description != nil {
		description = *yf.Description
	}
	var subFields, subSubFields []SubField
	if yf.SubFields != nil {
		subFields = *yf.SubFields
	}
	if yf.SubSubFields != nil {
		subSubFields = *yf.SubSubFields
	}

	switch {
	case yf.SubSubFields != nil:
		return NewMapMapField(yf.Name, t, description, subFields, subSubFields), nil
	case yf.SubFields != nil:
		return NewMapField(yf.Name, t, description, subFields), nil
	case yf.Description != nil:
		return NewDetailedField(yf.Name, t, description), nil
	default:
		return NewField(yf.Name, t), nil
	}
}
