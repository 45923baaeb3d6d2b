package llm

import (
	"testing"
)

func TestProviderPartner(t *testing.T) {
	tests := []struct {
		provider Provider
		partner  Provider
	}{
		{ProviderGemini, ProviderClaude},
		{ProviderClaude, ProviderGemini},
	}

	for _, tt := range tests {
		if got := tt.provider.Partner(); got != tt.partner {
			t.Errorf("%s.Partner() = %s, want %s", tt.provider, got, tt.partner)
		}
		if got := tt.provider.Partner().Partner(); got != tt.provider {
			t.Errorf("partner of partner of %s = %s, want %s", tt.provider, got, tt.provider)
		}
	}
}

func TestProviderValid(t *testing.T) {
	if !ProviderGemini.Valid() || !ProviderClaude.Valid() {
		t.Error("known providers must be valid")
	}
	if Provider("openai").Valid() {
		t.Error("unknown provider must not be valid")
	}
}

func TestDefaultConfigs(t *testing.T) {
	gemini := DefaultGeminiConfig()
	claude := DefaultClaudeConfig()

	if gemini.Provider != ProviderGemini {
		t.Errorf("gemini config provider = %s", gemini.Provider)
	}
	if claude.Provider != ProviderClaude {
		t.Errorf("claude config provider = %s", claude.Provider)
	}

	for _, cfg := range []*Config{gemini, claude} {
		for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
			if cfg.GetModel(tier) == "" {
				t.Errorf("%s config missing model for tier %s", cfg.Provider, tier)
			}
		}
	}
}

func TestGetModel_FallbackChain(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "only-lite"},
	}

	// Missing tiers fall back through standard to lite
	if got := cfg.GetModel(TierAdvanced); got != "only-lite" {
		t.Errorf("GetModel(advanced) = %q, want fallback to lite", got)
	}

	empty := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	if got := empty.GetModel(TierStandard); got != "" {
		t.Errorf("GetModel on empty config = %q, want empty", got)
	}
}

func TestWithModel(t *testing.T) {
	original := DefaultGeminiConfig()
	modified := original.WithModel(TierAdvanced, "custom-model")

	if modified.GetModel(TierAdvanced) != "custom-model" {
		t.Error("WithModel did not apply override")
	}
	if original.GetModel(TierAdvanced) == "custom-model" {
		t.Error("WithModel must not mutate the original config")
	}
}

func TestEstimateCost(t *testing.T) {
	cost := EstimateCost("gemini-2.5-flash", 1_000_000, 1_000_000)
	want := 0.30 + 2.50
	if cost < want-0.0001 || cost > want+0.0001 {
		t.Errorf("EstimateCost = %v, want %v", cost, want)
	}

	if got := EstimateCost("unknown-model", 1000, 1000); got != 0 {
		t.Errorf("unknown model cost = %v, want 0", got)
	}
}
