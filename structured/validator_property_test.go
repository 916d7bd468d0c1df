package structured

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Every violation must carry the path of the offending field, for any
// generated field name.
func TestProperty_MissingRequiredField_PathLocalization(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := NewValidator()

		fieldName := rapid.StringMatching(`[a-z]{3,10}`).Draw(rt, "fieldName")
		schema := NewObjectSchema().
			AddProperty(fieldName, NewStringSchema()).
			AddRequired(fieldName)

		err := v.Validate([]byte(`{}`), schema)
		require.Error(rt, err, "missing required field should cause error")

		valErrs, ok := err.(*ValidationErrors)
		require.True(rt, ok, "error should be ValidationErrors")
		require.NotEmpty(rt, valErrs.Errors)

		found := false
		for _, e := range valErrs.Errors {
			if strings.Contains(e.Path, fieldName) {
				found = true
				assert.NotEmpty(rt, e.Message)
			}
		}
		assert.True(rt, found, "error should name the violating field path: %s", fieldName)
	})
}

// Any integer renders to a string that coerces back to exactly that value
// under the coercion policy.
func TestProperty_IntegerStringCoercion_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := NewCoercingValidator()

		n := rapid.Int64().Draw(rt, "n")
		got, err := v.Apply(fmt.Sprintf("%d", n), NewIntegerSchema())
		require.NoError(rt, err)
		assert.Equal(rt, float64(n), got)
	})
}

// The strict validator never accepts a quoted scalar where a numeric or
// boolean type is declared.
func TestProperty_StrictValidator_RejectsQuotedScalars(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := NewValidator()

		n := rapid.Int64().Draw(rt, "n")
		_, err := v.Apply(fmt.Sprintf("%d", n), NewIntegerSchema())
		require.Error(rt, err)
	})
}

// A valid value against a generated flat schema stays valid after the
// validator's coercion pass (Apply is idempotent on conforming input).
func TestProperty_Apply_IdempotentOnConformingInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := NewCoercingValidator()

		fieldName := rapid.StringMatching(`[a-z]{3,10}`).Draw(rt, "fieldName")
		age := rapid.IntRange(0, 150).Draw(rt, "age")
		schema := NewObjectSchema().
			AddProperty(fieldName, NewIntegerSchema()).
			AddRequired(fieldName)

		value := map[string]any{fieldName: float64(age)}
		first, err := v.Apply(value, schema)
		require.NoError(rt, err)

		second, err := v.Apply(first, schema)
		require.NoError(rt, err)
		assert.Equal(rt, first, second)
	})
}
