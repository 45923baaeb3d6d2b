package orchestration

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/creator-agent/internal/llm"
)

const preflightTimeout = 15 * time.Second

// ProviderStatus is the outcome of probing one provider.
type ProviderStatus struct {
	Provider  llm.Provider `json:"provider"`
	Model     string       `json:"model"`
	Healthy   bool         `json:"healthy"`
	LatencyMs int64        `json:"latency_ms"`
	Error     string       `json:"error,omitempty"`
}

// Preflight probes every registered provider with a minimal generation call.
// Probes run concurrently and a slow provider cannot block the others past
// the per-probe timeout. The returned slice is ordered Gemini first, Claude
// second, regardless of completion order.
func Preflight(ctx context.Context, registry *Registry) []ProviderStatus {
	providers := []llm.Provider{llm.ProviderGemini, llm.ProviderClaude}
	statuses := make([]ProviderStatus, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, provider := range providers {
		g.Go(func() error {
			statuses[i] = probeProvider(gctx, registry, provider)
			// Probe failures land in the status, not the group error, so one
			// unhealthy provider never cancels the sibling probe.
			return nil
		})
	}
	_ = g.Wait()

	return statuses
}

func probeProvider(ctx context.Context, registry *Registry, provider llm.Provider) ProviderStatus {
	status := ProviderStatus{Provider: provider}

	client, err := registry.Client(provider)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Model = client.GetModel(llm.TierLite)

	probeCtx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	start := time.Now()
	outcome, err := client.Generate(probeCtx, "Reply with the single word: ok", llm.TierLite, llm.GenerateOptions{
		MaxTokens: 8,
	})
	status.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		status.Error = err.Error()
		return status
	}
	if outcome == nil || outcome.Content == "" {
		status.Error = "empty response from provider"
		return status
	}

	status.Healthy = true
	return status
}
