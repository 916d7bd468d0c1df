package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm"
	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm/providers"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New(providers.DeepSeekConfig{
		BaseProviderConfig: providers.BaseProviderConfig{APIKey: "sk-test"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", p.Name())
}

func TestNew_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  providers.DeepSeekConfig
	}{
		{
			name: "missing api key",
			cfg:  providers.DeepSeekConfig{},
		},
		{
			name: "malformed base url override",
			cfg: providers.DeepSeekConfig{
				BaseProviderConfig: providers.BaseProviderConfig{APIKey: "sk-test", BaseURL: "::bad::"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, nil)
			require.Error(t, err)
			var llmErr *llm.Error
			require.ErrorAs(t, err, &llmErr)
			assert.Equal(t, llm.ErrInvalidConfig, llmErr.Code)
		})
	}
}

func TestCompletion_UsesDeepSeekEndpointPath(t *testing.T) {
	var gotPath string
	var gotBody providers.CompatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		require.NoError(t, json.NewEncoder(w).Encode(providers.CompatResponse{
			Choices: []providers.CompatChoice{{Message: providers.CompatMessage{Content: "ok"}}},
		}))
	}))
	defer srv.Close()

	p, err := New(providers.DeepSeekConfig{
		BaseProviderConfig: providers.BaseProviderConfig{APIKey: "sk-test", BaseURL: srv.URL},
	}, nil)
	require.NoError(t, err)

	_, err = p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	// DeepSeek uses /chat/completions without the /v1 prefix and falls back
	// to deepseek-chat when no model is configured.
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "deepseek-chat", gotBody.Model)
}

func TestCompletion_ConfiguredModelWins(t *testing.T) {
	var gotBody providers.CompatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		require.NoError(t, json.NewEncoder(w).Encode(providers.CompatResponse{
			Choices: []providers.CompatChoice{{Message: providers.CompatMessage{Content: "ok"}}},
		}))
	}))
	defer srv.Close()

	p, err := New(providers.DeepSeekConfig{
		BaseProviderConfig: providers.BaseProviderConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "deepseek-reasoner"},
	}, nil)
	require.NoError(t, err)

	_, err = p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "deepseek-reasoner", gotBody.Model)
}
