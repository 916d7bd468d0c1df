package structured

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FieldError is a single field-level violation with its JSON path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every violation found in one pass. The validator
// never stops at the first failure; callers see the complete list.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for i := range e.Errors {
		msgs = append(msgs, e.Errors[i].Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Validator interprets a Schema descriptor tree against decoded JSON values.
// It is a generic walk over the descriptor; no reflection is involved.
//
// Scalar coercion is an explicit policy, not an accident of decoding: when
// enabled, a string value satisfies a numeric, integer, or boolean
// descriptor only if the whole string is a clean literal of that type
// ("30", "-2.5", "true"), and the value is rewritten to the coerced form so
// the caller's decode sees the declared type. Anything ambiguous ("thirty",
// "1x", "") stays a string and fails type validation.
type Validator struct {
	coerceScalars bool
}

// NewValidator creates a strict validator with scalar coercion disabled.
func NewValidator() *Validator {
	return &Validator{}
}

// NewCoercingValidator creates a validator that coerces clean scalar
// literals. This is the policy used for model output, where numbers are
// frequently quoted.
func NewCoercingValidator() *Validator {
	return &Validator{coerceScalars: true}
}

// Validate validates raw JSON against a descriptor, discarding the coerced
// value. A *ValidationErrors is returned when any field violates the
// descriptor; invalid JSON is reported as a plain error.
func (v *Validator) Validate(data []byte, schema *Schema) error {
	if schema == nil {
		return nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	_, err := v.Apply(value, schema)
	return err
}

// Apply walks a decoded JSON value against the descriptor, coercing scalars
// where the policy allows, and returns the (possibly rewritten) value. On
// any violation the full *ValidationErrors list is returned and the value
// must be discarded: no partially-typed result escapes.
func (v *Validator) Apply(value any, schema *Schema) (any, error) {
	var errs []FieldError
	out := v.apply(value, schema, "", &errs)
	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}
	return out, nil
}

func (v *Validator) apply(value any, s *Schema, path string, errs *[]FieldError) any {
	if s == nil {
		return value
	}

	if v.coerceScalars {
		value = coerceScalar(value, s.Type)
	}

	if len(s.Enum) > 0 {
		found := false
		for _, enumVal := range s.Enum {
			if equalValues(value, enumVal) {
				found = true
				break
			}
		}
		if !found {
			*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("value must be one of: %v", s.Enum)})
			return value
		}
	}

	switch s.Type {
	case TypeString:
		v.checkString(value, s, path, errs)
	case TypeNumber:
		v.checkNumber(value, s, path, errs)
	case TypeInteger:
		v.checkInteger(value, s, path, errs)
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected boolean, got %s", jsonTypeName(value))})
		}
	case TypeNull:
		if value != nil {
			*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected null, got %s", jsonTypeName(value))})
		}
	case TypeObject:
		return v.applyObject(value, s, path, errs)
	case TypeArray:
		return v.applyArray(value, s, path, errs)
	}
	return value
}

func (v *Validator) checkString(value any, s *Schema, path string, errs *[]FieldError) {
	str, ok := value.(string)
	if !ok {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected string, got %s", jsonTypeName(value))})
		return
	}
	if s.MinLength != nil && len(str) < *s.MinLength {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("string length %d is less than minimum %d", len(str), *s.MinLength)})
	}
	if s.MaxLength != nil && len(str) > *s.MaxLength {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("string length %d exceeds maximum %d", len(str), *s.MaxLength)})
	}
	if s.Pattern != "" {
		matched, err := regexp.MatchString(s.Pattern, str)
		if err != nil {
			*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("invalid pattern %q: %v", s.Pattern, err)})
		} else if !matched {
			*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("string does not match pattern %q", s.Pattern)})
		}
	}
}

func (v *Validator) checkNumber(value any, s *Schema, path string, errs *[]FieldError) {
	num, ok := toFloat64(value)
	if !ok {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected number, got %s", jsonTypeName(value))})
		return
	}
	v.checkRange(num, s, path, errs)
}

func (v *Validator) checkInteger(value any, s *Schema, path string, errs *[]FieldError) {
	num, ok := toFloat64(value)
	if !ok {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected integer, got %s", jsonTypeName(value))})
		return
	}
	if num != math.Trunc(num) {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected integer, got %v", num)})
		return
	}
	v.checkRange(num, s, path, errs)
}

func (v *Validator) checkRange(num float64, s *Schema, path string, errs *[]FieldError) {
	if s.Minimum != nil && num < *s.Minimum {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("value %v is less than minimum %v", num, *s.Minimum)})
	}
	if s.Maximum != nil && num > *s.Maximum {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("value %v exceeds maximum %v", num, *s.Maximum)})
	}
}

func (v *Validator) applyObject(value any, s *Schema, path string, errs *[]FieldError) any {
	obj, ok := value.(map[string]any)
	if !ok {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected object, got %s", jsonTypeName(value))})
		return value
	}

	for _, req := range s.Required {
		val, exists := obj[req]
		if !exists {
			*errs = append(*errs, FieldError{Path: joinPath(path, req), Message: "required field is missing"})
		} else if val == nil {
			*errs = append(*errs, FieldError{Path: joinPath(path, req), Message: "required field must not be null"})
		}
	}

	// Properties not named by the descriptor are ignored; the model is
	// allowed to over-answer as long as every declared field checks out.
	for name, propSchema := range s.Properties {
		if val, exists := obj[name]; exists && val != nil {
			obj[name] = v.apply(val, propSchema, joinPath(path, name), errs)
		}
	}
	return obj
}

func (v *Validator) applyArray(value any, s *Schema, path string, errs *[]FieldError) any {
	arr, ok := value.([]any)
	if !ok {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("expected array, got %s", jsonTypeName(value))})
		return value
	}

	if s.MinItems != nil && len(arr) < *s.MinItems {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("array has %d items, minimum is %d", len(arr), *s.MinItems)})
	}
	if s.MaxItems != nil && len(arr) > *s.MaxItems {
		*errs = append(*errs, FieldError{Path: path, Message: fmt.Sprintf("array has %d items, maximum is %d", len(arr), *s.MaxItems)})
	}

	if s.Items != nil {
		for i, item := range arr {
			arr[i] = v.apply(item, s.Items, fmt.Sprintf("%s[%d]", path, i), errs)
		}
	}
	return arr
}

// coerceScalar rewrites a string value to the declared scalar type when the
// whole string is a clean literal of that type. Any other value passes
// through untouched and is judged by the normal type checks.
func coerceScalar(value any, t FieldType) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	switch t {
	case TypeInteger:
		if i, err := strconv.ParseInt(str, 10, 64); err == nil {
			return float64(i)
		}
	case TypeNumber:
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return f
		}
	case TypeBoolean:
		if str == "true" {
			return true
		}
		if str == "false" {
			return false
		}
	}
	return value
}

func toFloat64(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func equalValues(a, b any) bool {
	aNum, aIsNum := toFloat64(a)
	bNum, bIsNum := toFloat64(b)
	if aIsNum && bIsNum {
		return aNum == bNum
	}
	if a == nil && b == nil {
		return true
	}
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	return string(aJSON) == string(bJSON)
}

// jsonTypeName names a decoded JSON value's type the way a schema reader
// would expect it, rather than leaking Go type names into error messages.
func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
