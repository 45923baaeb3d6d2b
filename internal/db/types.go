package db

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ChainRun represents one tier chain execution
type ChainRun struct {
	ID           uuid.UUID  `json:"id"`
	Tier         string     `json:"tier"`
	Prompt       string     `json:"prompt"`
	Status       string     `json:"status"`
	ErrorCode    string     `json:"error_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	TotalTokens  int        `json:"total_tokens"`
	TotalCostUSD float64    `json:"total_cost_usd"`
	CreditsUsed  int        `json:"credits_used"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// ChainStep represents one stage execution within a run. Output is stored
// verbatim so a failed run's partial trail can be inspected later.
type ChainStep struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Position  int       `json:"position"`
	Role      string    `json:"role"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Output    string    `json:"output,omitempty"`
	TokensIn  int       `json:"tokens_in"`
	TokensOut int       `json:"tokens_out"`
	LatencyMs int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	Tier   string
	Status string
	Limit  int
}
