package deepseek

import (
	"go.uber.org/zap"

	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm"
	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm/providers"
	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm/providers/openaicompat"
)

// DefaultBaseURL is DeepSeek's API endpoint.
const DefaultBaseURL = "https://api.deepseek.com"

// Provider adapts DeepSeek's chat completion API. DeepSeek is
// OpenAI-compatible, so this embeds openaicompat.Provider and only pins the
// base URL, endpoint path, and fallback model.
type Provider struct {
	*openaicompat.Provider
}

// New creates a DeepSeek provider. The base URL defaults to
// https://api.deepseek.com when cfg leaves it empty; the fallback model is
// deepseek-chat. Fails with an llm.ErrInvalidConfig error when the API key
// is missing or the base URL override is not a valid http(s) URL.
func New(cfg providers.DeepSeekConfig, logger *zap.Logger) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	inner, err := openaicompat.New(openaicompat.Config{
		ProviderName:   "deepseek",
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		DefaultModel:   cfg.Model,
		FallbackModel:  "deepseek-chat",
		Timeout:        cfg.Timeout,
		EndpointPath:   "/chat/completions",
		ModelsEndpoint: "/models",
	}, logger)
	if err != nil {
		return nil, err
	}
	return &Provider{Provider: inner}, nil
}

var _ llm.Provider = (*Provider)(nil)
