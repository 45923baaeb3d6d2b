package orchestration

import (
	"context"
	"fmt"

	"github.com/jonathan/creator-agent/internal/llm"
)

// mockClient is a scriptable llm.Client for orchestration tests.
type mockClient struct {
	provider llm.Provider
	model    string
	// generateFunc is invoked for every Generate call; nil means always fail
	generateFunc func(prompt string, tier llm.ModelTier, opts llm.GenerateOptions) (*llm.Outcome, error)

	calls       int
	lastPrompt  string
	lastOptions llm.GenerateOptions
}

func (m *mockClient) Generate(_ context.Context, prompt string, tier llm.ModelTier, opts llm.GenerateOptions) (*llm.Outcome, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastOptions = opts
	if m.generateFunc == nil {
		return nil, fmt.Errorf("mock %s: no response scripted", m.provider)
	}
	return m.generateFunc(prompt, tier, opts)
}

func (m *mockClient) Provider() llm.Provider { return m.provider }

func (m *mockClient) GetModel(llm.ModelTier) string { return m.model }

func (m *mockClient) Close() error { return nil }

// staticOutcome scripts a client that always succeeds with the given content.
func staticOutcome(content string, tokensIn, tokensOut int) func(string, llm.ModelTier, llm.GenerateOptions) (*llm.Outcome, error) {
	return func(_ string, _ llm.ModelTier, _ llm.GenerateOptions) (*llm.Outcome, error) {
		return &llm.Outcome{
			Success:   true,
			Content:   content,
			TokensIn:  tokensIn,
			TokensOut: tokensOut,
			CostUSD:   0.001,
			LatencyMs: 5,
		}, nil
	}
}

// alwaysFail scripts a client that always errors with the given message.
func alwaysFail(message string) func(string, llm.ModelTier, llm.GenerateOptions) (*llm.Outcome, error) {
	return func(_ string, _ llm.ModelTier, _ llm.GenerateOptions) (*llm.Outcome, error) {
		return nil, fmt.Errorf("%s", message)
	}
}

// newTestRegistry builds a registry over two mocks.
func newTestRegistry(gemini, claude *mockClient) *Registry {
	registry, err := NewRegistry(gemini, claude)
	if err != nil {
		panic(err)
	}
	return registry
}
