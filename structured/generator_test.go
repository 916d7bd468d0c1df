package structured

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_FlatStruct(t *testing.T) {
	type record struct {
		Name       string  `json:"name" jsonschema:"required;description=full name"`
		Age        int     `json:"age" jsonschema:"required;minimum=0;maximum=150"`
		Score      float64 `json:"score"`
		Active     bool    `json:"active"`
		unexported string
		Skipped    string `json:"-"`
	}
	_ = record{unexported: ""}

	schema, err := NewGenerator().Generate(reflect.TypeOf(record{}))
	require.NoError(t, err)
	require.Equal(t, TypeObject, schema.Type)

	assert.Len(t, schema.Properties, 4)
	assert.Nil(t, schema.GetProperty("Skipped"))
	assert.Nil(t, schema.GetProperty("unexported"))

	name := schema.GetProperty("name")
	require.NotNil(t, name)
	assert.Equal(t, TypeString, name.Type)
	assert.Equal(t, "full name", name.Description)

	age := schema.GetProperty("age")
	require.NotNil(t, age)
	assert.Equal(t, TypeInteger, age.Type)
	assert.Equal(t, float64(0), *age.Minimum)
	assert.Equal(t, float64(150), *age.Maximum)

	assert.Equal(t, TypeNumber, schema.GetProperty("score").Type)
	assert.Equal(t, TypeBoolean, schema.GetProperty("active").Type)

	assert.ElementsMatch(t, []string{"name", "age"}, schema.Required)
}

func TestGenerator_NestedStruct(t *testing.T) {
	type inner struct {
		Name string `json:"name" jsonschema:"required"`
	}
	type outer struct {
		Person  inner  `json:"person"`
		Company string `json:"company"`
	}

	schema, err := NewGenerator().Generate(reflect.TypeOf(outer{}))
	require.NoError(t, err)

	person := schema.GetProperty("person")
	require.NotNil(t, person)
	assert.Equal(t, TypeObject, person.Type)
	assert.Equal(t, TypeString, person.GetProperty("name").Type)
	assert.True(t, person.IsRequired("name"))
}

func TestGenerator_SlicesAndMaps(t *testing.T) {
	type record struct {
		Tags   []string       `json:"tags"`
		Extras map[string]int `json:"extras"`
		Ptr    *string        `json:"ptr"`
	}

	schema, err := NewGenerator().Generate(reflect.TypeOf(record{}))
	require.NoError(t, err)

	tags := schema.GetProperty("tags")
	require.NotNil(t, tags)
	assert.Equal(t, TypeArray, tags.Type)
	assert.Equal(t, TypeString, tags.Items.Type)

	assert.Equal(t, TypeObject, schema.GetProperty("extras").Type)
	assert.Equal(t, TypeString, schema.GetProperty("ptr").Type)
}

func TestGenerator_EnumTag(t *testing.T) {
	type record struct {
		Status string `json:"status" jsonschema:"enum=active,inactive,banned"`
	}

	schema, err := NewGenerator().Generate(reflect.TypeOf(record{}))
	require.NoError(t, err)
	assert.Equal(t, []any{"active", "inactive", "banned"}, schema.GetProperty("status").Enum)
}

func TestGenerator_UnsupportedType(t *testing.T) {
	type record struct {
		Ch chan int `json:"ch"`
	}

	_, err := NewGenerator().Generate(reflect.TypeOf(record{}))
	require.Error(t, err)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Error(), "unsupported field type")
	assert.Contains(t, schemaErr.Path, "ch")
}

func TestGenerator_RecursiveType(t *testing.T) {
	type node struct {
		Value    string  `json:"value"`
		Children []*node `json:"children"`
	}

	schema, err := NewGenerator().Generate(reflect.TypeOf(node{}))
	require.NoError(t, err)

	children := schema.GetProperty("children")
	require.NotNil(t, children)
	assert.Equal(t, TypeArray, children.Type)
	// Recursion terminates with a bare object descriptor.
	assert.Equal(t, TypeObject, children.Items.Type)
}

func TestGenerator_GeneratedSchemaPassesCheck(t *testing.T) {
	type record struct {
		Name string   `json:"name" jsonschema:"required"`
		Tags []string `json:"tags"`
	}

	schema, err := NewGenerator().Generate(reflect.TypeOf(record{}))
	require.NoError(t, err)
	assert.NoError(t, schema.Check())
}
