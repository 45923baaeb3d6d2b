// Package orchestration provides the multi-tier AI orchestration core: a
// single-call model service with cross-provider fallback, and a tier chain
// service that sequences dependent analyzer/strategist/implementer calls.
package orchestration

import (
	"fmt"

	"github.com/jonathan/creator-agent/internal/llm"
	"github.com/jonathan/creator-agent/internal/validation"
)

// ErrorCode identifies a failure class on orchestration responses.
type ErrorCode string

// Error codes surfaced to callers. Orchestration failures are response
// fields, never Go errors escaping to the transport layer.
const (
	// ErrCodeAllModelsFailed means the primary and fallback provider both failed
	ErrCodeAllModelsFailed ErrorCode = "ALL_MODELS_FAILED"
	// ErrCodeChainStepFailed means a chain stage produced no output and the chain aborted
	ErrCodeChainStepFailed ErrorCode = "CHAIN_STEP_FAILED"
	// ErrCodeChainExecutionFailed means the chain failed outside a stage (bad input, panic)
	ErrCodeChainExecutionFailed ErrorCode = "CHAIN_EXECUTION_FAILED"
)

// GenerationRequest is the caller's input to one orchestration call.
// Everything here is created per call and discarded with the response.
type GenerationRequest struct {
	Prompt       string               `json:"prompt"`
	SystemPrompt string               `json:"system_prompt,omitempty"`
	Temperature  float32              `json:"temperature,omitempty"`
	MaxTokens    int32                `json:"max_tokens,omitempty"`
	History      []llm.HistoryMessage `json:"history,omitempty"`
	Files        []llm.AttachedFile   `json:"files,omitempty"`
	// Context is an opaque payload describing the caller's environment
	// (site info, installed plugins, active theme). It is serialized into
	// the analyzer prompt verbatim.
	Context map[string]any `json:"context,omitempty"`
}

// Validate checks the request invariant: a prompt is required unless the
// request carries attached files.
func (r *GenerationRequest) Validate() error {
	if r.Prompt == "" && len(r.Files) == 0 {
		return fmt.Errorf("prompt is required when no files are attached")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", r.Temperature)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", r.MaxTokens)
	}
	return nil
}

// ModelRequest is a GenerationRequest bound to a primary provider for a
// single ModelService call.
type ModelRequest struct {
	GenerationRequest
	Model llm.Provider `json:"model"`
	// ModelTier selects the model within the provider's lineup.
	// Empty means TierStandard.
	ModelTier llm.ModelTier `json:"model_tier,omitempty"`
}

// ModelResponse is the merged outcome of a ModelService call: the provider
// outcome plus which model answered and whether fallback was attempted.
type ModelResponse struct {
	Success   bool    `json:"success"`
	Content   string  `json:"content"`
	TokensIn  int     `json:"tokens_in"`
	TokensOut int     `json:"tokens_out"`
	CostUSD   float64 `json:"cost_usd"`
	LatencyMs int64   `json:"latency_ms"`

	ModelUsed llm.Provider `json:"model_used"`
	ModelID   string       `json:"model_id,omitempty"`
	// UsedFallback means the fallback provider was attempted, not that it
	// succeeded: on total failure it is still true because both were tried.
	UsedFallback bool      `json:"used_fallback"`
	Error        string    `json:"error,omitempty"`
	ErrorCode    ErrorCode `json:"error_code,omitempty"`
}

// StepRole names one role within a tier's pipeline.
type StepRole string

// Stage roles in execution order.
const (
	RoleAnalyzer    StepRole = "analyzer"
	RoleStrategist  StepRole = "strategist"
	RoleImplementer StepRole = "implementer"
)

// ChainStepResult records one executed stage. The ordered sequence of these
// is the audit trail of a chain run.
type ChainStepResult struct {
	Role      StepRole     `json:"role"`
	Provider  llm.Provider `json:"provider"`
	ModelID   string       `json:"model_id"`
	Output    string       `json:"output"`
	TokensIn  int          `json:"tokens_in"`
	TokensOut int          `json:"tokens_out"`
	CostUSD   float64      `json:"cost_usd"`
	LatencyMs int64        `json:"latency_ms"`
}

// ValidationReport groups the deterministic checks run on the final output.
type ValidationReport struct {
	Syntactic validation.Result `json:"syntactic"`
}

// TierChainResponse is the consolidated result of one chain execution.
type TierChainResponse struct {
	Success bool   `json:"success"`
	Tier    Tier   `json:"tier"`
	Content string `json:"content"`
	// Strategy is populated for craft runs only
	Strategy   string            `json:"strategy,omitempty"`
	Validation ValidationReport  `json:"validation"`
	Steps      []ChainStepResult `json:"steps"`

	TotalTokens    int     `json:"total_tokens"`
	TotalCostUSD   float64 `json:"total_cost_usd"`
	TotalLatencyMs int64   `json:"total_latency_ms"`
	CreditsUsed    int     `json:"credits_used"`

	Error     string    `json:"error,omitempty"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}
