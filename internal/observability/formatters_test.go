package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/creator-agent/internal/llm"
	"github.com/jonathan/creator-agent/internal/orchestration"
	"github.com/jonathan/creator-agent/internal/validation"
)

func TestPrintChainSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &orchestration.TierChainResponse{
		Success:        true,
		TotalTokens:    1234,
		TotalCostUSD:   0.0456,
		CreditsUsed:    3,
		TotalLatencyMs: 2100,
		Steps:          make([]orchestration.ChainStepResult, 3),
	}

	p.PrintChainSummary(orchestration.TierCraft, resp)
	output := buf.String()

	assert.Contains(t, output, "CHAIN RUN")
	assert.Contains(t, output, "craft")
	assert.Contains(t, output, "completed")
	assert.Contains(t, output, "1234")
	assert.Contains(t, output, "$0.0456")
	assert.Contains(t, output, "Credits:  3")
}

func TestPrintChainSummary_Failed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &orchestration.TierChainResponse{
		Success:   false,
		ErrorCode: orchestration.ErrCodeChainStepFailed,
	}

	p.PrintChainSummary(orchestration.TierFlow, resp)

	assert.Contains(t, buf.String(), "failed")
	assert.Contains(t, buf.String(), string(orchestration.ErrCodeChainStepFailed))
}

func TestPrintChainSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintChainSummary(orchestration.TierFlow, nil)

	assert.Empty(t, buf.String())
}

func TestPrintSteps(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	steps := []orchestration.ChainStepResult{
		{
			Role:      orchestration.RoleAnalyzer,
			Provider:  llm.ProviderGemini,
			ModelID:   "gemini-2.5-flash-lite",
			Output:    "the analysis",
			TokensIn:  10,
			TokensOut: 20,
			LatencyMs: 300,
		},
		{
			Role:     orchestration.RoleImplementer,
			Provider: llm.ProviderClaude,
			ModelID:  "claude-sonnet-4-20250514",
			Output:   strings.Repeat("x", 500),
		},
	}

	p.PrintSteps(steps)
	output := buf.String()

	assert.Contains(t, output, "STAGES")
	assert.Contains(t, output, "analyzer")
	assert.Contains(t, output, "implementer")
	assert.Contains(t, output, "gemini-2.5-flash-lite")
	assert.Contains(t, output, "10 in, 20 out")
	assert.NotContains(t, output, strings.Repeat("x", 300), "long output must be truncated")
}

func TestPrintSteps_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSteps(nil)

	assert.Empty(t, buf.String())
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &orchestration.TierChainResponse{
		Validation: orchestration.ValidationReport{
			Syntactic: validation.Result{
				Valid:  false,
				Errors: []string{"Potential unbalanced braces/parentheses in PHP code"},
			},
		},
	}

	p.PrintValidation(resp)
	output := buf.String()

	assert.Contains(t, output, "VALIDATION")
	assert.Contains(t, output, "issues found")
	assert.Contains(t, output, "unbalanced braces")
}
