package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm"
)

// MapHTTPError maps an HTTP status code to an *llm.Error with the
// appropriate retryable flag. Shared by every provider; the error is
// surfaced to callers unmodified, nothing is retried here.
func MapHTTPError(status int, msg string, provider string) *llm.Error {
	switch status {
	case http.StatusUnauthorized:
		return &llm.Error{Code: llm.ErrUnauthorized, Message: msg, HTTPStatus: status, Provider: provider}
	case http.StatusForbidden:
		return &llm.Error{Code: llm.ErrForbidden, Message: msg, HTTPStatus: status, Provider: provider}
	case http.StatusTooManyRequests:
		return &llm.Error{Code: llm.ErrRateLimited, Message: msg, HTTPStatus: status, Retryable: true, Provider: provider}
	case http.StatusBadRequest:
		// Quota/credit exhaustion is reported as 400 by some gateways.
		msgLower := strings.ToLower(msg)
		if strings.Contains(msgLower, "quota") ||
			strings.Contains(msgLower, "credit") ||
			strings.Contains(msgLower, "limit") {
			return &llm.Error{Code: llm.ErrQuotaExceeded, Message: msg, HTTPStatus: status, Provider: provider}
		}
		return &llm.Error{Code: llm.ErrInvalidRequest, Message: msg, HTTPStatus: status, Provider: provider}
	case http.StatusGatewayTimeout:
		return &llm.Error{Code: llm.ErrUpstreamTimeout, Message: msg, HTTPStatus: status, Retryable: true, Provider: provider}
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return &llm.Error{Code: llm.ErrUpstreamError, Message: msg, HTTPStatus: status, Retryable: true, Provider: provider}
	case 529: // model overloaded (used by some providers)
		return &llm.Error{Code: llm.ErrModelOverloaded, Message: msg, HTTPStatus: status, Retryable: true, Provider: provider}
	default:
		return &llm.Error{Code: llm.ErrUpstreamError, Message: msg, HTTPStatus: status, Retryable: status >= 500, Provider: provider}
	}
}

// ReadErrorMessage extracts a human-readable error message from an error
// response body. Tries the OpenAI-compatible JSON error envelope first and
// falls back to the raw text.
func ReadErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return "failed to read error response"
	}

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		if errResp.Error.Type != "" {
			return fmt.Sprintf("%s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return errResp.Error.Message
	}

	return string(data)
}

// OpenAI-compatible wire types. DeepSeek and other compatible endpoints
// accept and produce these shapes on /chat/completions.

// CompatMessage is the OpenAI-compatible message format.
type CompatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
}

// CompatRequest is the OpenAI-compatible chat completion request body.
// Note there is no provider-specific structured-output parameter: DeepSeek
// does not support one natively, which is why schema instructions are
// embedded in the message list instead (see the structured package).
type CompatRequest struct {
	Model       string          `json:"model"`
	Messages    []CompatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float32         `json:"temperature,omitempty"`
	TopP        float32         `json:"top_p,omitempty"`
	Stop        []string        `json:"stop,omitempty"`
}

// CompatChoice is a single choice in an OpenAI-compatible response.
type CompatChoice struct {
	Index        int           `json:"index"`
	FinishReason string        `json:"finish_reason"`
	Message      CompatMessage `json:"message"`
}

// CompatUsage is the token usage block of an OpenAI-compatible response.
type CompatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompatResponse is the OpenAI-compatible chat completion response body.
type CompatResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []CompatChoice `json:"choices"`
	Usage   *CompatUsage   `json:"usage,omitempty"`
	Created int64          `json:"created,omitempty"`
}

// ConvertMessages converts llm.Message values to the wire format.
func ConvertMessages(msgs []llm.Message) []CompatMessage {
	out := make([]CompatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, CompatMessage{
			Role:    string(m.Role),
			Content: m.Content,
			Name:    m.Name,
		})
	}
	return out
}

// ToChatResponse converts a wire response to an llm.ChatResponse.
func ToChatResponse(compat CompatResponse, provider string) *llm.ChatResponse {
	choices := make([]llm.ChatChoice, 0, len(compat.Choices))
	for _, c := range compat.Choices {
		choices = append(choices, llm.ChatChoice{
			Index:        c.Index,
			FinishReason: c.FinishReason,
			Message: llm.Message{
				Role:    llm.RoleAssistant,
				Content: c.Message.Content,
				Name:    c.Message.Name,
			},
		})
	}
	resp := &llm.ChatResponse{
		ID:       compat.ID,
		Provider: provider,
		Model:    compat.Model,
		Choices:  choices,
	}
	if compat.Usage != nil {
		resp.Usage = llm.ChatUsage{
			PromptTokens:     compat.Usage.PromptTokens,
			CompletionTokens: compat.Usage.CompletionTokens,
			TotalTokens:      compat.Usage.TotalTokens,
		}
	}
	return resp
}

// ChooseModel picks the model for a request: request model first, then the
// configured default, then the provider fallback.
func ChooseModel(req *llm.ChatRequest, defaultModel, fallbackModel string) string {
	if req != nil && req.Model != "" {
		return req.Model
	}
	if defaultModel != "" {
		return defaultModel
	}
	return fallbackModel
}

// BearerTokenHeaders sets the standard bearer-token auth headers.
func BearerTokenHeaders(r *http.Request, apiKey string) {
	r.Header.Set("Authorization", "Bearer "+apiKey)
	r.Header.Set("Content-Type", "application/json")
}
