// Package llm generates the designer and planner role suggestions for
// structured keyword entries. All providers answer the same question:
// given a keyword and the citizen sentence it came from, return one short
// design suggestion and one short planning suggestion. By default the
// disabled provider answers with recognizable placeholders and no network
// calls are made.
package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Provider defines the interface for suggestion providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Suggest generates the two role suggestions for a keyword.
	Suggest(ctx context.Context, req SuggestRequest) (*SuggestResponse, error)

	// IsAvailable checks if the provider is properly configured and
	// reachable.
	IsAvailable(ctx context.Context) bool
}

// SuggestRequest contains the input for suggestion generation.
type SuggestRequest struct {
	// Keyword is the extracted keyword phrase.
	Keyword string

	// Sentence is the citizen sentence the keyword was found in. May be
	// empty when the evidence linker missed.
	Sentence string

	// Model overrides the configured model (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// SuggestResponse contains the generated suggestions.
type SuggestResponse struct {
	// DesignSuggestion is the designer role text.
	DesignSuggestion string

	// PlanningSuggestion is the planner role text.
	PlanningSuggestion string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI/Anthropic. Comes from the environment, never from
	// config files.
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama).
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int

	// Proxy settings.
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 200,
	}
}

const systemPrompt = "You are an expert urban designer and planner."

// BuildPrompt constructs the user prompt for suggestion generation.
func BuildPrompt(keyword, sentence string) string {
	return fmt.Sprintf("Based on this citizen feedback keyword '%s' from the sentence: \"%s\"\n\n"+
		"Please provide two short suggestions as plain text: first a design suggestion, then a planning suggestion.\n"+
		"Each suggestion should be 1-2 short sentences. Do not return JSON - return plain text only, "+
		"with the design suggestion first, then the planning suggestion on the next line.",
		keyword, sentence)
}

// ParseSuggestions extracts the two suggestions from a model reply. Lines
// are joined, the text is split into sentences, and the first sentence
// becomes the design suggestion, the second the planning suggestion.
// Missing pieces fall back to placeholders naming the keyword.
func ParseSuggestions(text, keyword string) (design, planning string) {
	var lines []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	joined := strings.Join(lines, " ")

	sents := splitAfterTerminators(joined)
	if len(sents) > 0 {
		design = strings.TrimSpace(sents[0])
	}
	if len(sents) > 1 {
		planning = strings.TrimSpace(sents[1])
	}

	if design == "" {
		design = emptyPlaceholder("design", keyword)
	}
	if planning == "" {
		planning = emptyPlaceholder("planning", keyword)
	}
	return design, planning
}

// splitAfterTerminators cuts text after '.', '!', or '?' when followed by
// whitespace. The terminator stays with its sentence.
func splitAfterTerminators(text string) []string {
	runes := []rune(text)
	var parts []string

	start := 0
	i := 0
	for i < len(runes) {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			parts = append(parts, string(runes[start:i+1]))
			i++
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}

	return parts
}

// Placeholder builders. The bracketed prefix tells downstream consumers
// the text did not come from a model.

func disabledPlaceholder(kind, keyword string) string {
	return fmt.Sprintf("[LLM disabled] %s suggestion for '%s'", kind, keyword)
}

func emptyPlaceholder(kind, keyword string) string {
	return fmt.Sprintf("[LLM empty] %s suggestion for '%s'", kind, keyword)
}

func unavailablePlaceholder(kind, keyword string) string {
	return fmt.Sprintf("[LLM unavailable] %s suggestion for '%s'", kind, keyword)
}

// IsPlaceholder reports whether s is a generated placeholder rather than
// model output.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(s, "[LLM ")
}

// UnavailableSuggestions is the fallback response used when a provider
// call fails.
func UnavailableSuggestions(keyword string) *SuggestResponse {
	return &SuggestResponse{
		DesignSuggestion:   unavailablePlaceholder("design", keyword),
		PlanningSuggestion: unavailablePlaceholder("planning", keyword),
	}
}
