package orchestration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/creator-agent/internal/llm"
)

func TestModelService_PrimarySuccess(t *testing.T) {
	gemini := &mockClient{provider: llm.ProviderGemini, model: "gemini-test", generateFunc: staticOutcome("primary answer", 10, 20)}
	claude := &mockClient{provider: llm.ProviderClaude, model: "claude-test", generateFunc: staticOutcome("fallback answer", 10, 20)}

	service := NewModelService(newTestRegistry(gemini, claude), "test system prompt")
	resp := service.Generate(context.Background(), ModelRequest{
		GenerationRequest: GenerationRequest{Prompt: "hello"},
		Model:             llm.ProviderGemini,
	})

	require.True(t, resp.Success)
	assert.Equal(t, "primary answer", resp.Content)
	assert.Equal(t, llm.ProviderGemini, resp.ModelUsed)
	assert.False(t, resp.UsedFallback)
	assert.Equal(t, 1, gemini.calls)
	assert.Equal(t, 0, claude.calls, "fallback should not be invoked when primary succeeds")
}

func TestModelService_FallbackInvariant(t *testing.T) {
	gemini := &mockClient{provider: llm.ProviderGemini, generateFunc: alwaysFail("gemini quota exceeded")}
	claude := &mockClient{provider: llm.ProviderClaude, generateFunc: staticOutcome("claude saved the day", 5, 15)}

	service := NewModelService(newTestRegistry(gemini, claude), "test system prompt")
	resp := service.Generate(context.Background(), ModelRequest{
		GenerationRequest: GenerationRequest{Prompt: "hello"},
		Model:             llm.ProviderGemini,
	})

	require.True(t, resp.Success)
	assert.True(t, resp.UsedFallback)
	assert.Equal(t, "claude saved the day", resp.Content, "content must come from the fallback, never the primary")
	assert.Equal(t, llm.ProviderClaude, resp.ModelUsed)
	assert.Equal(t, 1, gemini.calls)
	assert.Equal(t, 1, claude.calls)
}

func TestModelService_TotalFailure(t *testing.T) {
	gemini := &mockClient{provider: llm.ProviderGemini, generateFunc: alwaysFail("gemini down")}
	claude := &mockClient{provider: llm.ProviderClaude, generateFunc: alwaysFail("claude down")}

	service := NewModelService(newTestRegistry(gemini, claude), "test system prompt")
	resp := service.Generate(context.Background(), ModelRequest{
		GenerationRequest: GenerationRequest{Prompt: "hello"},
		Model:             llm.ProviderClaude,
	})

	require.False(t, resp.Success)
	assert.Empty(t, resp.Content)
	assert.True(t, resp.UsedFallback, "both providers were tried, so fallback counts as attempted")
	assert.Equal(t, ErrCodeAllModelsFailed, resp.ErrorCode)
	assert.Contains(t, resp.Error, "gemini down")
	assert.Contains(t, resp.Error, "claude down")
}

func TestModelService_FallbackReceivesIdenticalRequest(t *testing.T) {
	gemini := &mockClient{provider: llm.ProviderGemini, generateFunc: alwaysFail("nope")}
	claude := &mockClient{provider: llm.ProviderClaude, generateFunc: staticOutcome("ok", 1, 1)}

	service := NewModelService(newTestRegistry(gemini, claude), "default prompt")
	service.Generate(context.Background(), ModelRequest{
		GenerationRequest: GenerationRequest{
			Prompt:       "same prompt",
			SystemPrompt: "caller prompt",
			Temperature:  0.4,
			MaxTokens:    123,
		},
		Model: llm.ProviderGemini,
	})

	assert.Equal(t, gemini.lastPrompt, claude.lastPrompt)
	assert.Equal(t, gemini.lastOptions, claude.lastOptions)
	assert.Equal(t, "caller prompt", claude.lastOptions.SystemPrompt)
}

func TestModelService_DefaultSystemPromptSubstituted(t *testing.T) {
	gemini := &mockClient{provider: llm.ProviderGemini, generateFunc: staticOutcome("ok", 1, 1)}
	claude := &mockClient{provider: llm.ProviderClaude}

	service := NewModelService(newTestRegistry(gemini, claude), "injected default")
	service.Generate(context.Background(), ModelRequest{
		GenerationRequest: GenerationRequest{Prompt: "hello"},
		Model:             llm.ProviderGemini,
	})

	assert.Equal(t, "injected default", gemini.lastOptions.SystemPrompt)
}

func TestModelService_EmptyContentTriggersFallback(t *testing.T) {
	gemini := &mockClient{provider: llm.ProviderGemini, generateFunc: staticOutcome("", 3, 0)}
	claude := &mockClient{provider: llm.ProviderClaude, generateFunc: staticOutcome("real content", 1, 1)}

	service := NewModelService(newTestRegistry(gemini, claude), "p")
	resp := service.Generate(context.Background(), ModelRequest{
		GenerationRequest: GenerationRequest{Prompt: "hello"},
		Model:             llm.ProviderGemini,
	})

	require.True(t, resp.Success)
	assert.True(t, resp.UsedFallback)
	assert.Equal(t, "real content", resp.Content)
}

func TestProviderPartnerSymmetry(t *testing.T) {
	for _, p := range []llm.Provider{llm.ProviderGemini, llm.ProviderClaude} {
		assert.Equal(t, p, p.Partner().Partner(), "partner must be a 2-cycle")
		assert.NotEqual(t, p, p.Partner(), "partner must differ from the provider itself")
	}
}
