package structured

import (
	"encoding/json"
	"fmt"
)

// FieldType is the type tag of a schema descriptor.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeNull    FieldType = "null"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
)

// Schema is a declarative field descriptor: a type tag plus optional nested
// descriptors for object properties and array items, to arbitrary depth.
// It serves double duty as the prompt instruction source and the validation
// contract for the model's response. Callers own schemas; nothing in this
// package mutates one after binding.
type Schema struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type FieldType `json:"type,omitempty"`

	// Object descriptors
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	// Array descriptors
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Value constraints
	Enum      []any    `json:"enum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
}

// SchemaError reports a descriptor that cannot be reduced to a serializable
// field/type description. It is returned at bind time, before any I/O.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Message
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
}

// NewSchema creates a schema with the given type tag.
func NewSchema(t FieldType) *Schema {
	return &Schema{Type: t}
}

// NewObjectSchema creates an object schema with an empty property map.
func NewObjectSchema() *Schema {
	return &Schema{Type: TypeObject, Properties: make(map[string]*Schema)}
}

// NewArraySchema creates an array schema with the given items descriptor.
func NewArraySchema(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// NewStringSchema creates a string schema.
func NewStringSchema() *Schema { return &Schema{Type: TypeString} }

// NewNumberSchema creates a number schema.
func NewNumberSchema() *Schema { return &Schema{Type: TypeNumber} }

// NewIntegerSchema creates an integer schema.
func NewIntegerSchema() *Schema { return &Schema{Type: TypeInteger} }

// NewBooleanSchema creates a boolean schema.
func NewBooleanSchema() *Schema { return &Schema{Type: TypeBoolean} }

// WithDescription sets the description and returns the schema for chaining.
func (s *Schema) WithDescription(desc string) *Schema {
	s.Description = desc
	return s
}

// WithEnum sets the enum values.
func (s *Schema) WithEnum(values ...any) *Schema {
	s.Enum = values
	return s
}

// WithMinLength sets the minimum length for a string schema.
func (s *Schema) WithMinLength(min int) *Schema {
	s.MinLength = &min
	return s
}

// WithMaxLength sets the maximum length for a string schema.
func (s *Schema) WithMaxLength(max int) *Schema {
	s.MaxLength = &max
	return s
}

// WithPattern sets the regexp pattern for a string schema.
func (s *Schema) WithPattern(pattern string) *Schema {
	s.Pattern = pattern
	return s
}

// WithMinimum sets the minimum value for a numeric schema.
func (s *Schema) WithMinimum(min float64) *Schema {
	s.Minimum = &min
	return s
}

// WithMaximum sets the maximum value for a numeric schema.
func (s *Schema) WithMaximum(max float64) *Schema {
	s.Maximum = &max
	return s
}

// WithMinItems sets the minimum items for an array schema.
func (s *Schema) WithMinItems(min int) *Schema {
	s.MinItems = &min
	return s
}

// WithMaxItems sets the maximum items for an array schema.
func (s *Schema) WithMaxItems(max int) *Schema {
	s.MaxItems = &max
	return s
}

// AddProperty adds a property descriptor to an object schema.
func (s *Schema) AddProperty(name string, prop *Schema) *Schema {
	if s.Properties == nil {
		s.Properties = make(map[string]*Schema)
	}
	s.Properties[name] = prop
	return s
}

// AddRequired marks property names as required on an object schema.
func (s *Schema) AddRequired(names ...string) *Schema {
	s.Required = append(s.Required, names...)
	return s
}

// IsRequired reports whether a property is required.
func (s *Schema) IsRequired(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// GetProperty returns a property descriptor by name, or nil.
func (s *Schema) GetProperty(name string) *Schema {
	if s.Properties == nil {
		return nil
	}
	return s.Properties[name]
}

// Check verifies that the descriptor tree is well-formed: every type tag is
// known, every required name refers to a declared property, and every array
// has an items descriptor. Returns a *SchemaError naming the offending node.
func (s *Schema) Check() error {
	return s.check("")
}

func (s *Schema) check(path string) error {
	if s == nil {
		return &SchemaError{Path: path, Message: "nil descriptor"}
	}
	switch s.Type {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeNull:
	case TypeObject:
		for name, prop := range s.Properties {
			if err := prop.check(joinPath(path, name)); err != nil {
				return err
			}
		}
		for _, req := range s.Required {
			if _, ok := s.Properties[req]; !ok {
				return &SchemaError{Path: joinPath(path, req), Message: "required property is not declared"}
			}
		}
	case TypeArray:
		if s.Items == nil {
			return &SchemaError{Path: path, Message: "array descriptor has no items"}
		}
		if err := s.Items.check(path + "[]"); err != nil {
			return err
		}
	case "":
		if len(s.Enum) == 0 {
			return &SchemaError{Path: path, Message: "missing type tag"}
		}
	default:
		return &SchemaError{Path: path, Message: fmt.Sprintf("unsupported field type %q", s.Type)}
	}
	return nil
}

// ToJSON serializes the descriptor to JSON.
func (s *Schema) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// ToJSONIndent serializes the descriptor to indented JSON.
func (s *Schema) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON deserializes a descriptor from JSON and checks it.
func FromJSON(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	if err := schema.Check(); err != nil {
		return nil, err
	}
	return &schema, nil
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}
