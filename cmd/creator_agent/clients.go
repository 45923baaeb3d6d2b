package main

import (
	"context"
	"fmt"

	"github.com/jonathan/creator-agent/internal/config"
	"github.com/jonathan/creator-agent/internal/llm"
	"github.com/jonathan/creator-agent/internal/orchestration"
)

// loadAgentConfig resolves configuration from an optional file, the
// environment, and the built-in defaults, in that priority order.
func loadAgentConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.FromEnv()
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// providerConfig applies per-tier model overrides from the agent config.
func providerConfig(base *llm.Config, overrides map[string]string) *llm.Config {
	cfg := base
	for tierName, model := range overrides {
		cfg = cfg.WithModel(llm.ModelTier(tierName), model)
	}
	return cfg
}

// buildRegistry constructs both provider clients from the agent config.
func buildRegistry(ctx context.Context, cfg *config.Config) (*orchestration.Registry, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set (env, .env, or config file)")
	}
	if cfg.ClaudeAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set (env, .env, or config file)")
	}

	gemini, err := llm.NewClient(ctx, providerConfig(llm.DefaultGeminiConfig(), cfg.GeminiModels), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	claude, err := llm.NewClient(ctx, providerConfig(llm.DefaultClaudeConfig(), cfg.ClaudeModels), cfg.ClaudeAPIKey)
	if err != nil {
		gemini.Close()
		return nil, fmt.Errorf("failed to create Claude client: %w", err)
	}

	return orchestration.NewRegistry(gemini, claude)
}
