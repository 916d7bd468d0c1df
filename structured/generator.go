package structured

import (
	"reflect"
	"strconv"
	"strings"
)

// Generator derives a Schema descriptor from a Go type using reflection.
// Generation happens once at bind time; the resulting descriptor is what the
// validator interprets, so no reflection runs on the response path.
//
// Struct fields use the "json" tag for the wire name and the "jsonschema"
// tag for constraints:
//
//	required            mark the field required
//	description=...     field description (included in the prompt)
//	enum=a,b,c          allowed values
//	minimum=0           numeric minimum
//	maximum=100         numeric maximum
//	minLength=1         minimum string length
//	maxLength=100       maximum string length
//	pattern=^[a-z]+$    string regexp
type Generator struct {
	visited map[reflect.Type]bool
}

// NewGenerator creates a Generator.
func NewGenerator() *Generator {
	return &Generator{visited: make(map[reflect.Type]bool)}
}

// Generate derives a descriptor for t. Fails with a *SchemaError when t
// contains a field that cannot be described (channels, funcs, complex
// numbers).
func (g *Generator) Generate(t reflect.Type) (*Schema, error) {
	g.visited = make(map[reflect.Type]bool)
	return g.generate(t, "")
}

func (g *Generator) generate(t reflect.Type, path string) (*Schema, error) {
	if t == nil {
		return nil, &SchemaError{Path: path, Message: "cannot describe nil type"}
	}
	if t.Kind() == reflect.Ptr {
		return g.generate(t.Elem(), path)
	}
	if g.visited[t] {
		// Recursive types terminate with a bare object descriptor.
		return &Schema{Type: TypeObject}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return NewStringSchema(), nil
	case reflect.Bool:
		return NewBooleanSchema(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewIntegerSchema(), nil
	case reflect.Float32, reflect.Float64:
		return NewNumberSchema(), nil
	case reflect.Slice, reflect.Array:
		elem, err := g.generate(t.Elem(), path+"[]")
		if err != nil {
			return nil, err
		}
		return NewArraySchema(elem), nil
	case reflect.Map:
		// Maps appear as open objects; values are not individually described.
		return &Schema{Type: TypeObject}, nil
	case reflect.Struct:
		return g.generateStruct(t, path)
	case reflect.Interface:
		// any: no constraint.
		return &Schema{}, nil
	default:
		return nil, &SchemaError{Path: path, Message: "unsupported field type " + t.Kind().String()}
	}
}

func (g *Generator) generateStruct(t reflect.Type, path string) (*Schema, error) {
	g.visited[t] = true
	defer delete(g.visited, t)

	schema := NewObjectSchema()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonFieldName(field)
		if name == "-" {
			continue
		}

		fieldSchema, err := g.generate(field.Type, joinPath(path, name))
		if err != nil {
			return nil, err
		}
		if req := applyTagOptions(fieldSchema, field); req {
			schema.Required = append(schema.Required, name)
		}
		schema.Properties[name] = fieldSchema
	}
	return schema, nil
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return field.Name
	}
	return name
}

// applyTagOptions applies jsonschema tag constraints to a descriptor and
// reports whether the field is required.
func applyTagOptions(schema *Schema, field reflect.StructField) bool {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false
	}

	required := false
	for _, opt := range strings.Split(tag, ";") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, val, _ := strings.Cut(opt, "=")
		switch key {
		case "required":
			required = true
		case "description":
			schema.Description = val
		case "enum":
			values := strings.Split(val, ",")
			schema.Enum = make([]any, len(values))
			for i, v := range values {
				schema.Enum[i] = strings.TrimSpace(v)
			}
		case "minimum":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				schema.Minimum = &f
			}
		case "maximum":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				schema.Maximum = &f
			}
		case "minLength":
			if n, err := strconv.Atoi(val); err == nil {
				schema.MinLength = &n
			}
		case "maxLength":
			if n, err := strconv.Atoi(val); err == nil {
				schema.MaxLength = &n
			}
		case "pattern":
			schema.Pattern = val
		}
	}
	return required
}
