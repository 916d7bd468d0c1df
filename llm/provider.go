package llm

import (
	"context"
	"time"
)

// ErrorCode classifies provider failures so callers can align HTTP status
// and retryability without string matching.
type ErrorCode string

const (
	ErrInvalidConfig   ErrorCode = "LLM_INVALID_CONFIG"   // missing/malformed connection fields
	ErrInvalidRequest  ErrorCode = "LLM_INVALID_REQUEST"  // bad request parameters
	ErrUnauthorized    ErrorCode = "LLM_UNAUTHORIZED"     // missing or revoked API key
	ErrForbidden       ErrorCode = "LLM_FORBIDDEN"        // permission or content policy refusal
	ErrRateLimited     ErrorCode = "LLM_RATE_LIMITED"     // upstream throttling
	ErrQuotaExceeded   ErrorCode = "LLM_QUOTA_EXCEEDED"   // account quota/credits exhausted
	ErrModelOverloaded ErrorCode = "LLM_MODEL_OVERLOADED" // model capacity exceeded
	ErrUpstreamTimeout ErrorCode = "LLM_UPSTREAM_TIMEOUT" // upstream timeout
	ErrUpstreamError   ErrorCode = "LLM_UPSTREAM_ERROR"   // upstream 5xx or transport failure
)

// Error is the unified provider error. Transport and HTTP failures are
// surfaced to callers as *Error without modification; nothing is retried
// internally.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role/content pair in a chat conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
}

// ChatRequest describes one synchronous chat completion. A fresh request is
// constructed per call; providers never mutate it.
type ChatRequest struct {
	TraceID     string    `json:"trace_id,omitempty"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
	TopP        float32   `json:"top_p,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

type ChatChoice struct {
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason,omitempty"`
	Message      Message `json:"message"`
}

type ChatResponse struct {
	ID        string       `json:"id,omitempty"`
	Provider  string       `json:"provider,omitempty"`
	Model     string       `json:"model"`
	Choices   []ChatChoice `json:"choices"`
	Usage     ChatUsage    `json:"usage,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// Model describes an available model as reported by the provider.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// HealthStatus reports the result of a provider health probe.
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}

// Provider is the uniform chat-completion adapter interface. Implementations
// hold only read-only configuration after construction, so a single instance
// is safe for concurrent callers.
type Provider interface {
	// Completion sends exactly one synchronous chat request and returns the
	// full response. No retry, no streaming, no batching.
	Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// HealthCheck performs a lightweight reachability probe.
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// ListModels returns the models available at the endpoint.
	ListModels(ctx context.Context) ([]Model, error)

	// Name returns the provider's unique identifier.
	Name() string
}
