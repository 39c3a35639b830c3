package keywords

import (
	"fmt"
	"os"
	"strings"

	"github.com/participax/civiclens/internal/model"
)

// NewEmbedder creates an embedder based on the provider name. An empty or
// "auto" provider picks OpenAI when an API key is present and falls back
// to the offline lexical embedder otherwise.
func NewEmbedder(config Config) (Embedder, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIEmbedder(config)
	case "lexical":
		return NewLexicalEmbedder(), nil
	case "", "auto":
		if config.APIKey != "" {
			return NewOpenAIEmbedder(config)
		}
		return NewLexicalEmbedder(), nil
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s (use openai, lexical, or auto)", config.Provider)
	}
}

// ConfigFromModel converts the runtime configuration into an embedder
// Config, pulling the API key from the environment.
func ConfigFromModel(cfg model.EmbedderConfig) Config {
	return Config{
		Provider:      cfg.Provider,
		Model:         cfg.Model,
		APIKey:        os.Getenv("OPENAI_API_KEY"),
		BatchSize:     cfg.BatchSize,
		RatePerSecond: cfg.RatePerSecond,
	}
}
