package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

func sampleSchema() *Schema {
	return New(
		NewField("id", typesystem.Long),
		NewDetailedField("name", typesystem.String, "display name"),
		NewMapField("tags", typesystem.StringMap, "labels", []SubField{{Name: "env", Description: "environment"}}),
		NewMapMapField("stats", typesystem.LongMapMap, "counters", nil, []SubField{{Name: "count", Description: "hits"}}),
	)
}

func TestSchemaOrderAndLookup(t *testing.T) {
	s := sampleSchema()

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "name", "tags", "stats"}, names)
	assert.Equal(t, 4, s.Len())

	assert.Equal(t, typesystem.Long, s.TypeOf("id"))
	assert.Equal(t, typesystem.Null, s.TypeOf("missing"))

	f, ok := s.Field("name")
	require.True(t, ok)
	assert.Equal(t, "display name", f.Description)

	_, ok = s.Field("missing")
	assert.False(t, ok)
}

func TestAddFieldReplacesInPlace(t *testing.T) {
	s := sampleSchema()
	s.Add("name", typesystem.Long)

	assert.Equal(t, typesystem.Long, s.TypeOf("name"))
	assert.Equal(t, "name", s.Fields()[1].Name)
	assert.Equal(t, 4, s.Len())

	s.RemoveField("name").RemoveField("missing")
	assert.False(t, s.HasField("name"))
	assert.Equal(t, 3, s.Len())
}

func TestCapabilities(t *testing.T) {
	s := sampleSchema()

	plain, _ := s.Field("id")
	assert.False(t, plain.HasDescription())
	assert.False(t, plain.HasSubFields())

	mapField, _ := s.Field("tags")
	assert.True(t, mapField.HasDescription())
	assert.True(t, mapField.HasSubFields())
	assert.False(t, mapField.HasSubSubFields())

	mapMap, _ := s.Field("stats")
	assert.True(t, mapMap.HasSubSubFields())
	assert.Nil(t, mapMap.SubFields)

	assert.Len(t, s.DetailedFields(), 3)
	assert.Len(t, s.MapFields(), 2)
	assert.Len(t, s.MapMapFields(), 1)
}

func TestChangeMetadata(t *testing.T) {
	s := sampleSchema()

	require.NoError(t, s.ChangeFieldType("id", typesystem.Integer))
	assert.Equal(t, typesystem.Integer, s.TypeOf("id"))

	require.NoError(t, s.ChangeDescription("tags", "new labels"))
	f, _ := s.Field("tags")
	assert.Equal(t, "new labels", f.Description)
	assert.Equal(t, "tags", s.Fields()[2].Name)

	require.NoError(t, s.ChangeSubFields("stats", []SubField{{Name: "region"}}))
	require.NoError(t, s.ChangeSubSubFields("stats", nil))
	f, _ = s.Field("stats")
	assert.Equal(t, []SubField{{Name: "region"}}, f.SubFields)
	assert.Nil(t, f.SubSubFields)

	err := s.ChangeDescription("id", "x")
	assert.True(t, errors.Is(err, ErrMissingMetadata))

	err = s.ChangeSubFields("name", nil)
	assert.True(t, errors.Is(err, ErrMissingMetadata))

	err = s.ChangeSubSubFields("tags", nil)
	assert.True(t, errors.Is(err, ErrMissingMetadata))

	err = s.ChangeFieldType("missing", typesystem.Long)
	assert.True(t, errors.Is(err, ErrFieldNotFound))
}

func TestCopyIsDeep(t *testing.T) {
	s := sampleSchema()
	cp := s.Copy()

	require.NoError(t, cp.ChangeSubFields("tags", []SubField{{Name: "other"}}))
	cp.RemoveField("id")

	f, _ := s.Field("tags")
	assert.Equal(t, "env", f.SubFields[0].Name)
	assert.True(t, s.HasField("id"))

	// Mutating a returned field does not reach the schema.
	f.SubFields[0].Name = "mutated"
	again, _ := s.Field("tags")
	assert.Equal(t, "env", again.SubFields[0].Name)
}

func TestTypes(t *testing.T) {
	s := New(
		NewField("a", typesystem.Long),
		NewField("b", typesystem.String),
		NewField("c", typesystem.Long),
	)
	assert.Equal(t, []typesystem.Type{typesystem.Long, typesystem.String}, s.Types())
}

func TestNamesAreNFC(t *testing.T) {
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"
	s := New(NewField(decomposed, typesystem.String))

	assert.True(t, s.HasField(composed))
	assert.Equal(t, composed, s.Fields()[0].Name)
	assert.Equal(t, typesystem.String, s.TypeOf(decomposed))
}
