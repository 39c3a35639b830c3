package llm

import "context"

// DisabledProvider is the default provider. It answers every request with
// placeholders so the pipeline produces complete entries without an API
// key or network access.
type DisabledProvider struct{}

// NewDisabledProvider creates a new disabled provider.
func NewDisabledProvider() *DisabledProvider {
	return &DisabledProvider{}
}

// Name returns the provider name.
func (p *DisabledProvider) Name() string {
	return "disabled"
}

// IsAvailable always succeeds.
func (p *DisabledProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// Suggest returns placeholder suggestions for the keyword.
func (p *DisabledProvider) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResponse, error) {
	return &SuggestResponse{
		DesignSuggestion:   disabledPlaceholder("design", req.Keyword),
		PlanningSuggestion: disabledPlaceholder("planning", req.Keyword),
		Model:              "disabled",
	}, nil
}
