// Package config loads client configuration from a YAML file with
// environment-variable overrides for secrets.
//
// Precedence: defaults, then the YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NihilDigit/DeepSeek-Structured-Output-for-LangChain/llm/providers"
)

// Config is the full client configuration.
type Config struct {
	DeepSeek providers.DeepSeekConfig `yaml:"deepseek"`
	LogLevel string                   `yaml:"log_level"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		DeepSeek: providers.DeepSeekConfig{
			BaseProviderConfig: providers.BaseProviderConfig{
				Model:   "deepseek-chat",
				Timeout: 30 * time.Second,
			},
		},
		LogLevel: "info",
	}
}

// Load reads YAML configuration from path on top of the defaults and applies
// environment overrides. An empty path skips the file and uses defaults plus
// environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values from the environment. The API key is
// expected to arrive this way in most deployments.
func (c *Config) applyEnv() {
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		c.DeepSeek.APIKey = v
	}
	if v := os.Getenv("DEEPSEEK_BASE_URL"); v != "" {
		c.DeepSeek.BaseURL = v
	}
	if v := os.Getenv("DEEPSEEK_MODEL"); v != "" {
		c.DeepSeek.Model = v
	}
}
