// Package db provides PostgreSQL storage for chain run audit trails.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateChainRun creates a new chain run record and returns its ID
func (db *DB) CreateChainRun(ctx context.Context, tier, prompt string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO chain_runs (tier, prompt, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		tier, prompt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create chain run: %w", err)
	}
	return id, nil
}

// SaveChainStep stores one stage execution for a run. Position is the
// zero-based index of the stage within the chain.
func (db *DB) SaveChainStep(ctx context.Context, runID uuid.UUID, step *ChainStep) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO chain_steps (run_id, position, role, provider, model, output, tokens_in, tokens_out, latency_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (run_id, position) DO UPDATE
		 SET role = $3, provider = $4, model = $5, output = $6,
		     tokens_in = $7, tokens_out = $8, latency_ms = $9`,
		runID, step.Position, step.Role, step.Provider, step.Model,
		step.Output, step.TokensIn, step.TokensOut, step.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save chain step %d: %w", step.Position, err)
	}
	return nil
}

// CompleteChainRun marks a run as finished with its final status and totals
func (db *DB) CompleteChainRun(ctx context.Context, runID uuid.UUID, status, errorCode, errorMessage string, totalTokens int, totalCostUSD float64, creditsUsed int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE chain_runs
		 SET status = $1, error_code = NULLIF($2, ''), error_message = NULLIF($3, ''),
		     total_tokens = $4, total_cost_usd = $5, credits_used = $6, completed_at = NOW()
		 WHERE id = $7`,
		status, errorCode, errorMessage, totalTokens, totalCostUSD, creditsUsed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete chain run: %w", err)
	}
	return nil
}

// GetChainRun retrieves a run by ID. Returns nil when no run exists.
func (db *DB) GetChainRun(ctx context.Context, runID uuid.UUID) (*ChainRun, error) {
	var run ChainRun
	var errorCode, errorMessage *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, tier, prompt, status, error_code, error_message,
		        total_tokens, total_cost_usd, credits_used, created_at, completed_at
		 FROM chain_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Tier, &run.Prompt, &run.Status, &errorCode, &errorMessage,
		&run.TotalTokens, &run.TotalCostUSD, &run.CreditsUsed, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chain run: %w", err)
	}

	if errorCode != nil {
		run.ErrorCode = *errorCode
	}
	if errorMessage != nil {
		run.ErrorMessage = *errorMessage
	}

	return &run, nil
}

// ListChainRuns retrieves recent runs with optional filters
func (db *DB) ListChainRuns(ctx context.Context, filters RunFilters) ([]ChainRun, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, tier, prompt, status, error_code, error_message,
	                 total_tokens, total_cost_usd, credits_used, created_at, completed_at
	          FROM chain_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Tier != "" {
		query += fmt.Sprintf(" AND tier = $%d", argNum)
		args = append(args, filters.Tier)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chain runs: %w", err)
	}
	defer rows.Close()

	var runs []ChainRun
	for rows.Next() {
		var run ChainRun
		var errorCode, errorMessage *string
		if err := rows.Scan(&run.ID, &run.Tier, &run.Prompt, &run.Status, &errorCode, &errorMessage,
			&run.TotalTokens, &run.TotalCostUSD, &run.CreditsUsed, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chain run: %w", err)
		}
		if errorCode != nil {
			run.ErrorCode = *errorCode
		}
		if errorMessage != nil {
			run.ErrorMessage = *errorMessage
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// ListChainSteps retrieves all steps for a run in execution order
func (db *DB) ListChainSteps(ctx context.Context, runID uuid.UUID) ([]ChainStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, position, role, provider, model, output,
		        tokens_in, tokens_out, latency_ms, created_at
		 FROM chain_steps WHERE run_id = $1 ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chain steps: %w", err)
	}
	defer rows.Close()

	var steps []ChainStep
	for rows.Next() {
		var step ChainStep
		if err := rows.Scan(&step.ID, &step.RunID, &step.Position, &step.Role, &step.Provider,
			&step.Model, &step.Output, &step.TokensIn, &step.TokensOut, &step.LatencyMs, &step.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chain step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// DeleteChainRun deletes a run and its steps (via cascade)
func (db *DB) DeleteChainRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM chain_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete chain run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("chain run not found: %s", runID)
	}
	return nil
}
