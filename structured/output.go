package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm"
)

// ParseError reports a response that is not valid JSON. Raw carries the
// model's full text for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v (raw: %q)", e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Output is an invocation handle bound to one schema and one provider. Each
// Invoke is a single stateless request/response cycle: the handle writes no
// instance state, so one Output may be shared by concurrent callers.
type Output[T any] struct {
	schema    *Schema
	provider  llm.Provider
	validator *Validator
	logger    *zap.Logger
}

// New binds a handle whose schema is derived from T's struct tags. Binding
// is pure and performs no I/O; it fails with a *SchemaError when T cannot be
// reduced to a field/type description.
func New[T any](provider llm.Provider) (*Output[T], error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	var zero T
	schema, err := NewGenerator().Generate(reflect.TypeOf(zero))
	if err != nil {
		return nil, err
	}
	return newOutput[T](provider, schema), nil
}

// NewWithSchema binds a handle to an explicit descriptor. The descriptor is
// checked up front; a malformed one fails with a *SchemaError before any
// request is made.
func NewWithSchema[T any](provider llm.Provider, schema *Schema) (*Output[T], error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	if schema == nil {
		return nil, &SchemaError{Message: "nil descriptor"}
	}
	if err := schema.Check(); err != nil {
		return nil, err
	}
	return newOutput[T](provider, schema), nil
}

func newOutput[T any](provider llm.Provider, schema *Schema) *Output[T] {
	return &Output[T]{
		schema:    schema,
		provider:  provider,
		validator: NewCoercingValidator(),
		logger:    zap.NewNop(),
	}
}

// WithLogger sets the logger and returns the handle for chaining.
func (o *Output[T]) WithLogger(logger *zap.Logger) *Output[T] {
	if logger != nil {
		o.logger = logger
	}
	return o
}

// Schema returns the bound descriptor.
func (o *Output[T]) Schema() *Schema { return o.schema }

// Invoke sends one chat completion carrying the user prompt plus the
// schema-derived formatting instruction, and returns the validated value.
func (o *Output[T]) Invoke(ctx context.Context, prompt string) (*T, error) {
	return o.InvokeMessages(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
}

// InvokeMessages is Invoke for a prepared message list. Exactly one
// system-level formatting instruction is prepended; the caller's messages
// follow in their original order. Exactly one request is sent; every
// failure is surfaced synchronously, nothing is retried.
func (o *Output[T]) InvokeMessages(ctx context.Context, messages []llm.Message) (*T, error) {
	instruction, err := o.instruction()
	if err != nil {
		return nil, err
	}

	all := make([]llm.Message, 0, len(messages)+1)
	all = append(all, llm.Message{Role: llm.RoleSystem, Content: instruction})
	all = append(all, messages...)

	req := &llm.ChatRequest{
		TraceID:  uuid.NewString(),
		Messages: all,
	}

	resp, err := o.provider.Completion(ctx, req)
	if err != nil {
		return nil, err
	}
	raw, err := llm.FirstContent(resp)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("structured completion received",
		zap.String("provider", o.provider.Name()),
		zap.String("trace_id", req.TraceID),
		zap.Int("raw_len", len(raw)))

	return o.Parse(raw)
}

// Parse coerces a raw model response into a validated T. Fails with a
// *ParseError when the text is not valid JSON and a *ValidationErrors
// naming every offending field when it does not satisfy the descriptor.
// A non-nil result always satisfies the bound schema in full.
func (o *Output[T]) Parse(raw string) (*T, error) {
	jsonStr := extractJSON(raw)

	var value any
	if err := json.Unmarshal([]byte(jsonStr), &value); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	coerced, err := o.validator.Apply(value, o.schema)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(coerced)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode validated value: %w", err)
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode validated value: %w", err)
	}
	return &result, nil
}

// instruction derives the system-level formatting instruction from the
// bound descriptor: the serialized field/type description plus the explicit
// directive that the response must be JSON of that shape.
func (o *Output[T]) instruction() (string, error) {
	schemaJSON, err := o.schema.ToJSONIndent()
	if err != nil {
		return "", &SchemaError{Message: fmt.Sprintf("descriptor is not serializable: %v", err)}
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful assistant that generates structured JSON output.\n\n")
	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. You MUST respond with valid JSON that conforms to the schema below.\n")
	sb.WriteString("2. Do NOT include any text before or after the JSON.\n")
	sb.WriteString("3. Do NOT wrap the JSON in markdown code blocks.\n")
	sb.WriteString("4. Ensure all required fields are present and have valid values.\n")
	sb.WriteString("5. Follow all constraints specified in the schema (enum values, min/max, patterns, etc.).\n\n")
	sb.WriteString("JSON Schema:\n")
	sb.Write(schemaJSON)
	sb.WriteString("\n\nRespond with ONLY the JSON object.")
	return sb.String(), nil
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON pulls the JSON payload out of a response that may be wrapped
// in markdown fences or surrounded by prose.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```") {
		if matches := fencedJSON.FindStringSubmatch(response); len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}

	if start, end := strings.Index(response, "{"), strings.LastIndex(response, "}"); start >= 0 && end > start {
		return response[start : end+1]
	}
	if start, end := strings.Index(response, "["), strings.LastIndex(response, "]"); start >= 0 && end > start {
		return response[start : end+1]
	}
	return response
}
