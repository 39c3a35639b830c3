package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/participax/civiclens/internal/model"
)

// NewProvider creates the provider named in config. An empty or
// explicitly disabled name yields the placeholder provider.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "", "disabled", "none":
		return NewDisabledProvider(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama, disabled)", config.Provider)
	}
}

// ConfigFromModel converts application config into provider config. API
// keys are read from the environment only; disabling the LLM in config
// blanks the provider regardless of what else is set.
func ConfigFromModel(cfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	c := Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.TimeoutSeconds,
		MaxTokens:  cfg.MaxTokens,
		HTTPProxy:  httpCfg.Proxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
		NoProxy:    httpCfg.NoProxy,
	}

	if !cfg.Enabled {
		c.Provider = ""
		return c
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return c
}
