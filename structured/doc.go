// Package structured coerces free-form chat completions into typed,
// schema-validated values.
//
// DeepSeek's API has no native structured-output parameter, so the package
// fills the gap on the prompt side: a declarative Schema descriptor is
// rendered into a single system-level formatting instruction, one completion
// is requested, and the response is parsed, validated against the descriptor
// (collecting every field-level violation), and decoded into the caller's
// type.
//
//	type Person struct {
//		Name       string `json:"name" jsonschema:"required"`
//		Age        int    `json:"age" jsonschema:"required;minimum=0"`
//		Occupation string `json:"occupation"`
//	}
//
//	out, err := structured.New[Person](provider)
//	person, err := out.Invoke(ctx, "John is a 30 year old software engineer.")
//
// Error taxonomy: *SchemaError at bind time, *ParseError for non-JSON
// responses (carrying the raw text), *ValidationErrors for schema
// violations (the complete list, never just the first). Provider transport
// failures pass through as *llm.Error.
package structured
