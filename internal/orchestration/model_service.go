package orchestration

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/creator-agent/internal/llm"
)

// ModelService executes exactly one logical "ask a model" operation with
// automatic single-level fallback to the partner provider. There are no
// retries beyond that one fallback and no internal timeout; deadlines belong
// to the caller's context and the provider clients.
type ModelService struct {
	registry            *Registry
	defaultSystemPrompt string
}

// NewModelService creates a model service. defaultSystemPrompt is
// substituted whenever a request carries no system prompt of its own; it is
// injected here rather than read from a package constant so tests can use a
// minimal prompt.
func NewModelService(registry *Registry, defaultSystemPrompt string) *ModelService {
	return &ModelService{
		registry:            registry,
		defaultSystemPrompt: defaultSystemPrompt,
	}
}

// Generate calls the requested provider and, if that call fails, the partner
// provider with the identical request. Latency on the response covers the
// whole operation including any fallback attempt.
func (s *ModelService) Generate(ctx context.Context, req ModelRequest) *ModelResponse {
	start := time.Now()

	primary := req.Model
	if !primary.Valid() {
		primary = llm.ProviderGemini
	}
	fallback := primary.Partner()

	tier := req.ModelTier
	if tier == "" {
		tier = llm.TierStandard
	}

	opts := llm.GenerateOptions{
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		History:      req.History,
		Files:        req.Files,
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = s.defaultSystemPrompt
	}

	log.Printf("[model-service] attempt provider=%s tier=%s", primary, tier)
	outcome, primaryErr := s.attempt(ctx, primary, req.Prompt, tier, opts)
	if primaryErr == nil {
		log.Printf("[model-service] success provider=%s model=%s tokens=%d/%d",
			primary, outcome.Model, outcome.TokensIn, outcome.TokensOut)
		return responseFromOutcome(outcome, primary, false, start)
	}

	log.Printf("[model-service] provider=%s failed, falling back to %s: %v", primary, fallback, primaryErr)
	outcome, fallbackErr := s.attempt(ctx, fallback, req.Prompt, tier, opts)
	if fallbackErr == nil {
		log.Printf("[model-service] fallback success provider=%s model=%s tokens=%d/%d",
			fallback, outcome.Model, outcome.TokensIn, outcome.TokensOut)
		return responseFromOutcome(outcome, fallback, true, start)
	}

	log.Printf("[model-service] all providers failed: %s: %v; %s: %v",
		primary, primaryErr, fallback, fallbackErr)
	return &ModelResponse{
		Success:      false,
		ModelUsed:    primary,
		UsedFallback: true, // both providers were tried
		LatencyMs:    time.Since(start).Milliseconds(),
		Error: fmt.Sprintf("all models failed: %s: %v; %s: %v",
			primary, primaryErr, fallback, fallbackErr),
		ErrorCode: ErrCodeAllModelsFailed,
	}
}

// attempt runs one provider call, folding client errors and empty content
// into a single error return.
func (s *ModelService) attempt(ctx context.Context, provider llm.Provider, prompt string, tier llm.ModelTier, opts llm.GenerateOptions) (*llm.Outcome, error) {
	client, err := s.registry.Client(provider)
	if err != nil {
		return nil, err
	}
	outcome, err := client.Generate(ctx, prompt, tier, opts)
	if err != nil {
		return nil, err
	}
	if outcome == nil || outcome.Content == "" {
		return nil, fmt.Errorf("empty response from %s", provider)
	}
	return outcome, nil
}

// responseFromOutcome maps a successful provider outcome into the service
// response, stamping total latency from the start of Generate.
func responseFromOutcome(outcome *llm.Outcome, provider llm.Provider, usedFallback bool, start time.Time) *ModelResponse {
	return &ModelResponse{
		Success:      true,
		Content:      outcome.Content,
		TokensIn:     outcome.TokensIn,
		TokensOut:    outcome.TokensOut,
		CostUSD:      outcome.CostUSD,
		LatencyMs:    time.Since(start).Milliseconds(),
		ModelUsed:    provider,
		ModelID:      outcome.Model,
		UsedFallback: usedFallback,
	}
}
