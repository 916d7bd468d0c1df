package providers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm"
)

// BaseProviderConfig holds the connection profile shared by all providers:
// API key, base URL, default model, and HTTP timeout. Immutable after
// construction; providers copy it and never write to it again.
type BaseProviderConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Validate checks the connection profile and fails fast with an
// llm.ErrInvalidConfig error on the first missing or malformed field.
// BaseURL may be empty only when the provider supplies its own default.
func (c BaseProviderConfig) Validate(provider string) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return configError(provider, "api_key must not be empty")
	}
	if c.BaseURL != "" {
		if err := checkHTTPURL(c.BaseURL); err != nil {
			return configError(provider, fmt.Sprintf("base_url %q: %v", c.BaseURL, err))
		}
	}
	return nil
}

// checkHTTPURL verifies that s parses as an absolute http(s) URL.
func checkHTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func configError(provider, msg string) *llm.Error {
	return &llm.Error{
		Code:     llm.ErrInvalidConfig,
		Message:  msg,
		Provider: provider,
	}
}

// DeepSeekConfig is the DeepSeek provider configuration.
type DeepSeekConfig struct {
	BaseProviderConfig `yaml:",inline"`
}
