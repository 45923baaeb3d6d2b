package db

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/creator-agent/internal/orchestration"
)

// RecordChainRun persists a finished chain execution, steps included. A nil
// database makes this a no-op so callers without audit storage configured
// need no branching. Persistence failures are logged, never surfaced: a
// generation that succeeded must not fail because the audit write did.
func RecordChainRun(ctx context.Context, database *DB, prompt string, tier orchestration.Tier, resp *orchestration.TierChainResponse) uuid.UUID {
	if database == nil || resp == nil {
		return uuid.Nil
	}

	runID, err := database.CreateChainRun(ctx, string(tier), prompt)
	if err != nil {
		log.Printf("[db] failed to create chain run: %v", err)
		return uuid.Nil
	}

	for i, step := range resp.Steps {
		err := database.SaveChainStep(ctx, runID, &ChainStep{
			Position:  i,
			Role:      string(step.Role),
			Provider:  string(step.Provider),
			Model:     step.ModelID,
			Output:    step.Output,
			TokensIn:  step.TokensIn,
			TokensOut: step.TokensOut,
			LatencyMs: step.LatencyMs,
		})
		if err != nil {
			log.Printf("[db] failed to save chain step %d: %v", i, err)
		}
	}

	status := RunStatusCompleted
	if !resp.Success {
		status = RunStatusFailed
	}
	if err := database.CompleteChainRun(ctx, runID, status, string(resp.ErrorCode), resp.Error,
		resp.TotalTokens, resp.TotalCostUSD, resp.CreditsUsed); err != nil {
		log.Printf("[db] failed to complete chain run: %v", err)
	}

	return runID
}
