package orchestration

import (
	"fmt"

	"github.com/jonathan/creator-agent/internal/llm"
)

// Registry holds one configured client per supported provider. It is the
// only place that maps a provider identity to a concrete client, so adding a
// provider is a compile-time change here rather than a string lookup.
type Registry struct {
	gemini llm.Client
	claude llm.Client
}

// NewRegistry creates a registry from the two provider clients.
func NewRegistry(gemini, claude llm.Client) (*Registry, error) {
	if gemini == nil {
		return nil, fmt.Errorf("gemini client is required")
	}
	if claude == nil {
		return nil, fmt.Errorf("claude client is required")
	}
	return &Registry{gemini: gemini, claude: claude}, nil
}

// Client returns the client for a provider identity.
func (r *Registry) Client(provider llm.Provider) (llm.Client, error) {
	switch provider {
	case llm.ProviderGemini:
		return r.gemini, nil
	case llm.ProviderClaude:
		return r.claude, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Close closes both underlying clients, returning the first error.
func (r *Registry) Close() error {
	geminiErr := r.gemini.Close()
	claudeErr := r.claude.Close()
	if geminiErr != nil {
		return geminiErr
	}
	return claudeErr
}
