package orchestration

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/creator-agent/internal/llm"
	"github.com/jonathan/creator-agent/internal/validation"
)

// TierChainService runs a tier-specific ordered pipeline of dependent model
// calls and returns a consolidated, auditable result. Each Execute call is
// an isolated, stateless computation: the service holds no per-call state
// and concurrent executions share nothing mutable.
type TierChainService struct {
	registry *Registry
}

// NewTierChainService creates a chain service over the provider registry.
func NewTierChainService(registry *Registry) *TierChainService {
	return &TierChainService{registry: registry}
}

// chainRun is the working state of one Execute call.
type chainRun struct {
	steps       []ChainStepResult
	totalTokens int
	totalCost   float64
	analysis    string
	strategy    string
	content     string
}

// Execute runs the tier's pipeline: analyze, strategize (craft only),
// implement, then deterministic validation. It never returns a Go error;
// every failure path produces a response with Success=false and a populated
// error code.
func (s *TierChainService) Execute(ctx context.Context, req *GenerationRequest, tier Tier) (resp *TierChainResponse) {
	start := time.Now()

	// A panic anywhere in the chain becomes a CHAIN_EXECUTION_FAILED
	// response. The recover path has no access to step state accumulated
	// inside a panicking stage, so the audit trail is lost here; only the
	// empty-output abort path below preserves it.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[chain] tier=%s panic: %v", tier, r)
			resp = &TierChainResponse{
				Success:        false,
				Tier:           tier,
				TotalLatencyMs: time.Since(start).Milliseconds(),
				Error:          fmt.Sprintf("chain execution failed: %v", r),
				ErrorCode:      ErrCodeChainExecutionFailed,
			}
		}
	}()

	if !tier.Valid() {
		return s.executionFailure(tier, start, fmt.Errorf("unknown tier: %s", tier))
	}
	if req == nil {
		return s.executionFailure(tier, start, fmt.Errorf("request is nil"))
	}
	if err := req.Validate(); err != nil {
		return s.executionFailure(tier, start, err)
	}

	stages, err := stagesFor(tier)
	if err != nil {
		return s.executionFailure(tier, start, err)
	}

	log.Printf("[chain] tier=%s start stages=%d", tier, len(stages))
	run := &chainRun{steps: make([]ChainStepResult, 0, len(stages))}

	for _, stage := range stages {
		step, stageErr := s.runStage(ctx, req, tier, stage, run)

		// The step is recorded and totals accumulate even when the call
		// failed: a failed call may still have been billed for input
		// tokens, and the audit trail must show every attempt.
		run.steps = append(run.steps, step)
		run.totalTokens += step.TokensIn + step.TokensOut
		run.totalCost += step.CostUSD

		if step.Output == "" {
			log.Printf("[chain] tier=%s stage=%s aborted: %v", tier, stage.Role, stageErr)
			return &TierChainResponse{
				Success:        false,
				Tier:           tier,
				Steps:          run.steps,
				TotalTokens:    run.totalTokens,
				TotalCostUSD:   run.totalCost,
				TotalLatencyMs: time.Since(start).Milliseconds(),
				Error:          describeStageFailure(stage.Role, stageErr),
				ErrorCode:      ErrCodeChainStepFailed,
			}
		}

		switch stage.Role {
		case RoleAnalyzer:
			run.analysis = step.Output
		case RoleStrategist:
			run.strategy = step.Output
		case RoleImplementer:
			run.content = step.Output
		}
		log.Printf("[chain] tier=%s stage=%s done tokens=%d/%d latency=%dms",
			tier, stage.Role, step.TokensIn, step.TokensOut, step.LatencyMs)
	}

	syntactic := validation.Syntactic(run.content)
	log.Printf("[chain] tier=%s complete tokens=%d cost=%.6f valid=%t",
		tier, run.totalTokens, run.totalCost, syntactic.Valid)

	return &TierChainResponse{
		Success:        true,
		Tier:           tier,
		Content:        run.content,
		Strategy:       run.strategy,
		Validation:     ValidationReport{Syntactic: syntactic},
		Steps:          run.steps,
		TotalTokens:    run.totalTokens,
		TotalCostUSD:   run.totalCost,
		TotalLatencyMs: time.Since(start).Milliseconds(),
		CreditsUsed:    CreditsFor(tier),
	}
}

// runStage executes one stage's provider call. Client errors never escape:
// they come back as a ChainStepResult with empty output and zero cost, which
// the caller turns into the abort path.
func (s *TierChainService) runStage(ctx context.Context, req *GenerationRequest, tier Tier, stage StageSpec, run *chainRun) (ChainStepResult, error) {
	step := ChainStepResult{
		Role:     stage.Role,
		Provider: stage.Provider,
	}

	client, err := s.registry.Client(stage.Provider)
	if err != nil {
		return step, err
	}
	step.ModelID = client.GetModel(stage.ModelTier)

	prompt, opts := s.stageCall(req, tier, stage, run)

	stageStart := time.Now()
	outcome, err := client.Generate(ctx, prompt, stage.ModelTier, opts)
	step.LatencyMs = time.Since(stageStart).Milliseconds()
	if err != nil {
		return step, err
	}

	step.Output = outcome.Content
	step.TokensIn = outcome.TokensIn
	step.TokensOut = outcome.TokensOut
	step.CostUSD = outcome.CostUSD
	step.LatencyMs = outcome.LatencyMs
	if outcome.Model != "" {
		step.ModelID = outcome.Model
	}
	return step, nil
}

// stageCall builds the prompt and options for a stage. Only the implementer
// sees the caller's system prompt and attachments; earlier stages work from
// the serialized context embedded in their prompts.
func (s *TierChainService) stageCall(req *GenerationRequest, tier Tier, stage StageSpec, run *chainRun) (string, llm.GenerateOptions) {
	opts := llm.GenerateOptions{
		Temperature: stage.Temperature,
		MaxTokens:   stage.MaxTokens,
	}

	switch stage.Role {
	case RoleStrategist:
		return buildStrategyPrompt(req, run.analysis), opts
	case RoleImplementer:
		brief := run.analysis
		if tier == TierCraft {
			brief = run.strategy
		}
		opts.SystemPrompt = implementerSystemPrompt(req, tier)
		opts.History = req.History
		opts.Files = req.Files
		return buildImplementationPrompt(req, brief), opts
	default:
		opts.Files = req.Files
		return analyzerPrompt(req, tier), opts
	}
}

// executionFailure builds the response for failures that happen before any
// stage runs (bad tier, bad request). Steps are empty by construction.
func (s *TierChainService) executionFailure(tier Tier, start time.Time, err error) *TierChainResponse {
	log.Printf("[chain] tier=%s execution failure: %v", tier, err)
	return &TierChainResponse{
		Success:        false,
		Tier:           tier,
		TotalLatencyMs: time.Since(start).Milliseconds(),
		Error:          err.Error(),
		ErrorCode:      ErrCodeChainExecutionFailed,
	}
}
