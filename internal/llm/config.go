// Package llm provides centralized LLM configuration and client abstractions.
// This package presents Gemini and Claude behind a uniform capability so the
// orchestration layer never touches provider wire formats.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for fast, cheap calls: analysis, classification, extraction
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: planning, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: implementation, code generation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderClaude is the Anthropic Claude provider
	ProviderClaude Provider = "claude"
)

// Valid returns true if the provider is a known value.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderClaude:
		return true
	default:
		return false
	}
}

// Partner returns the fallback partner for a provider. With exactly two
// supported providers this is a 2-element cycle: Gemini falls back to Claude
// and Claude falls back to Gemini.
func (p Provider) Partner() Provider {
	switch p {
	case ProviderGemini:
		return ProviderClaude
	case ProviderClaude:
		return ProviderGemini
	default:
		// Unknown providers map to Gemini so callers always get a usable
		// identity; Valid() is the place to reject bad input.
		return ProviderGemini
	}
}

// Config holds the model configuration for one provider
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration for a provider
func DefaultConfig(provider Provider) *Config {
	switch provider {
	case ProviderClaude:
		return DefaultClaudeConfig()
	default:
		return DefaultGeminiConfig()
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultClaudeConfig returns the default Claude configuration
func DefaultClaudeConfig() *Config {
	return &Config{
		Provider: ProviderClaude,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-20241022",
			TierStandard: "claude-sonnet-4-20250514",
			TierAdvanced: "claude-opus-4-20250514",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
