package structured

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaBuilders(t *testing.T) {
	schema := NewObjectSchema().
		AddProperty("name", NewStringSchema().WithMinLength(1).WithMaxLength(80)).
		AddProperty("age", NewIntegerSchema().WithMinimum(0).WithMaximum(150)).
		AddProperty("tags", NewArraySchema(NewStringSchema()).WithMinItems(0).WithMaxItems(10)).
		AddProperty("status", NewStringSchema().WithEnum("active", "inactive")).
		AddRequired("name", "age")

	assert.Equal(t, TypeObject, schema.Type)
	assert.True(t, schema.IsRequired("name"))
	assert.True(t, schema.IsRequired("age"))
	assert.False(t, schema.IsRequired("tags"))

	name := schema.GetProperty("name")
	require.NotNil(t, name)
	assert.Equal(t, TypeString, name.Type)
	assert.Equal(t, 1, *name.MinLength)

	assert.Nil(t, schema.GetProperty("missing"))
}

func TestSchema_Check(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		wantErr string
	}{
		{
			name: "valid nested schema",
			schema: NewObjectSchema().
				AddProperty("person", NewObjectSchema().
					AddProperty("name", NewStringSchema()).
					AddRequired("name")).
				AddRequired("person"),
		},
		{
			name:    "unknown type tag",
			schema:  &Schema{Type: "decimal"},
			wantErr: `unsupported field type "decimal"`,
		},
		{
			name: "nested unknown type carries path",
			schema: NewObjectSchema().
				AddProperty("inner", NewObjectSchema().
					AddProperty("bad", &Schema{Type: "uint128"})),
			wantErr: "inner.bad",
		},
		{
			name:    "array without items",
			schema:  &Schema{Type: TypeArray},
			wantErr: "no items",
		},
		{
			name: "required name not declared",
			schema: NewObjectSchema().
				AddProperty("a", NewStringSchema()).
				AddRequired("b"),
			wantErr: "not declared",
		},
		{
			name:    "missing type and no enum",
			schema:  &Schema{},
			wantErr: "missing type tag",
		},
		{
			name:   "bare enum without type is allowed",
			schema: &Schema{Enum: []any{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchema_JSONRoundTrip(t *testing.T) {
	schema := NewObjectSchema().
		AddProperty("name", NewStringSchema().WithDescription("full name")).
		AddProperty("age", NewIntegerSchema().WithMinimum(0)).
		AddRequired("name")

	data, err := schema.ToJSON()
	require.NoError(t, err)

	parsed, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, schema.Type, parsed.Type)
	assert.Equal(t, "full name", parsed.GetProperty("name").Description)
	assert.Equal(t, float64(0), *parsed.GetProperty("age").Minimum)
	assert.True(t, parsed.IsRequired("name"))
}

func TestSchema_ToJSON_OmitsEmpty(t *testing.T) {
	data, err := NewStringSchema().ToJSON()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, map[string]any{"type": "string"}, m)
}

func TestFromJSON_Errors(t *testing.T) {
	_, err := FromJSON([]byte(`{not json`))
	assert.Error(t, err)

	// Well-formed JSON, malformed descriptor.
	_, err = FromJSON([]byte(`{"type": "decimal"}`))
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}
