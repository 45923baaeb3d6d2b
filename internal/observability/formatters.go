// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/creator-agent/internal/orchestration"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewLen is how much of a stage output to show before truncating
	previewLen = 200
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChainSummary outputs a human-readable summary of a chain run.
func (p *Printer) PrintChainSummary(tier orchestration.Tier, resp *orchestration.TierChainResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tier:     %s\n", tier))
	if resp.Success {
		sb.WriteString("Status:   completed\n")
	} else {
		sb.WriteString(fmt.Sprintf("Status:   failed (%s)\n", resp.ErrorCode))
	}
	sb.WriteString(fmt.Sprintf("Stages:   %d\n", len(resp.Steps)))
	sb.WriteString(fmt.Sprintf("Tokens:   %d\n", resp.TotalTokens))
	sb.WriteString(fmt.Sprintf("Cost:     $%.4f\n", resp.TotalCostUSD))
	sb.WriteString(fmt.Sprintf("Credits:  %d\n", resp.CreditsUsed))
	sb.WriteString(fmt.Sprintf("Latency:  %dms", resp.TotalLatencyMs))

	p.printBox("CHAIN RUN", sb.String())
}

// PrintSteps outputs each stage's provider, model, token usage, and a
// truncated output preview.
func (p *Printer) PrintSteps(steps []orchestration.ChainStepResult) {
	if len(steps) == 0 {
		return
	}

	var sb strings.Builder
	for i, step := range steps {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, step.Role))
		sb.WriteString(fmt.Sprintf("    %s / %s\n", step.Provider, step.ModelID))
		sb.WriteString(fmt.Sprintf("    tokens: %d in, %d out  latency: %dms\n",
			step.TokensIn, step.TokensOut, step.LatencyMs))

		preview := strings.ReplaceAll(step.Output, "\n", " ")
		if len(preview) > previewLen {
			preview = preview[:previewLen-3] + "..."
		}
		if preview == "" {
			preview = "(no output)"
		}
		sb.WriteString(fmt.Sprintf("    %s\n", preview))
		if i < len(steps)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("STAGES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the syntactic validation verdict for the final
// content.
func (p *Printer) PrintValidation(resp *orchestration.TierChainResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	if resp.Validation.Syntactic.Valid {
		sb.WriteString("Syntactic: ok")
	} else {
		sb.WriteString("Syntactic: issues found\n")
		for _, msg := range resp.Validation.Syntactic.Errors {
			sb.WriteString(fmt.Sprintf("  • %s\n", msg))
		}
	}

	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}
