// Package orchestration - prompts.go builds the role prompts for each chain
// stage. Stage prompts thread the previous stage's output into the next, so
// the chain has a hard data dependency between stages.
package orchestration

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultSystemPrompt is the assistant instruction substituted when the
// caller supplies none. ModelService takes this as a constructor argument so
// tests can inject a minimal prompt; this value is just the shipped default.
const DefaultSystemPrompt = `You are Creator, an AI assistant embedded in a website administration panel.
You help site administrators manage their sites: creating pages and posts, configuring plugins,
editing templates, and writing small amounts of PHP, SQL, or JavaScript when asked.
Be precise and conservative. Prefer reversible changes. When generating code, generate complete,
working snippets rather than fragments, and explain any destructive operation before proposing it.`

// Tier-specific implementer instructions, used when the caller supplies no
// system prompt of its own.
const (
	flowImplementerSystemPrompt = `You are the implementation engine of a website assistant.
Work quickly and keep output minimal: produce the requested JSON action plan and nothing else.
Favor the simplest change that satisfies the request.`

	craftImplementerSystemPrompt = `You are the implementation engine of a website assistant.
Work thoroughly: produce a complete, production-quality JSON action plan.
Consider security implications of every action, validate inputs in generated code,
and include enough detail in the message field to document what the plan does and why.`
)

// serializeContext renders the caller's context payload for embedding in a
// prompt. Marshal failures degrade to an empty block rather than aborting
// the chain.
func serializeContext(context map[string]any) string {
	if len(context) == 0 {
		return "(no site context provided)"
	}
	data, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		return "(site context unavailable)"
	}
	return string(data)
}

// buildQuickAnalysisPrompt builds the flow-tier analyzer prompt: four
// required elements, concise output.
func buildQuickAnalysisPrompt(req *GenerationRequest) string {
	var sb strings.Builder

	sb.WriteString("Analyze this website administration request. Be concise.\n\n")
	sb.WriteString("Cover exactly these four elements:\n")
	sb.WriteString("1. Intent: what the user wants done\n")
	sb.WriteString("2. Entities: pages, posts, plugins, or settings involved\n")
	sb.WriteString("3. Requirements: what must be true for the change to work\n")
	sb.WriteString("4. Risks: what could break\n\n")
	sb.WriteString("Site context:\n")
	sb.WriteString(serializeContext(req.Context))
	sb.WriteString("\n\nUser request:\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n")

	return sb.String()
}

// buildDeepAnalysisPrompt builds the craft-tier analyzer prompt: five
// sections, thorough output.
func buildDeepAnalysisPrompt(req *GenerationRequest) string {
	var sb strings.Builder

	sb.WriteString("Produce a deep analysis of this website administration request.\n\n")
	sb.WriteString("Structure your analysis in five sections:\n")
	sb.WriteString("## Intent Analysis\nWhat the user wants, including implicit goals.\n\n")
	sb.WriteString("## Technical Scope\nWhich parts of the site are touched and how.\n\n")
	sb.WriteString("## Dependencies\nPlugins, themes, data, or settings the change depends on.\n\n")
	sb.WriteString("## Risk Assessment\nWhat could break, data-loss potential, security concerns.\n\n")
	sb.WriteString("## Complexity Estimate\nHow involved the implementation will be and why.\n\n")
	sb.WriteString("Site context:\n")
	sb.WriteString(serializeContext(req.Context))
	sb.WriteString("\n\nUser request:\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n")

	return sb.String()
}

// buildStrategyPrompt builds the craft-tier strategist prompt from the
// analyzer's output plus the original request.
func buildStrategyPrompt(req *GenerationRequest, analysis string) string {
	var sb strings.Builder

	sb.WriteString("You are planning the implementation of a website change.\n")
	sb.WriteString("Using the analysis below, produce an implementation plan with these parts:\n")
	sb.WriteString("- Architecture: overall approach\n")
	sb.WriteString("- Steps: ordered implementation steps\n")
	sb.WriteString("- Structure: files, templates, or code structure involved\n")
	sb.WriteString("- Integration points: where the change hooks into the existing site\n")
	sb.WriteString("- Test strategy: how to verify the change works\n")
	sb.WriteString("- Rollback plan: how to undo the change safely\n\n")
	sb.WriteString("Analysis:\n")
	sb.WriteString(analysis)
	sb.WriteString("\n\nOriginal request:\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n")

	return sb.String()
}

// buildImplementationPrompt builds the implementer prompt. brief is the
// analyzer output (flow) or the strategist output (craft).
func buildImplementationPrompt(req *GenerationRequest, brief string) string {
	var sb strings.Builder

	sb.WriteString("Implement the website change described below.\n\n")
	sb.WriteString("Brief:\n")
	sb.WriteString(brief)
	sb.WriteString("\n\nOriginal request:\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n\n")
	sb.WriteString("Respond with ONLY a JSON object of this exact shape:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"intent\": \"string\", // machine-readable intent, e.g. \"create_page\"\n")
	sb.WriteString("  \"confidence\": 0.0, // number in [0,1]\n")
	sb.WriteString("  \"actions\": [], // ordered action objects, each with \"type\" and \"params\"\n")
	sb.WriteString("  \"message\": \"string\" // human-readable summary for the administrator\n")
	sb.WriteString("}\n\n")
	sb.WriteString("No markdown, no explanation outside the JSON object.\n")

	return sb.String()
}

// implementerSystemPrompt returns the system prompt for the implementer
// stage: the caller's own prompt when present, else the tier default.
func implementerSystemPrompt(req *GenerationRequest, tier Tier) string {
	if req.SystemPrompt != "" {
		return req.SystemPrompt
	}
	if tier == TierCraft {
		return craftImplementerSystemPrompt
	}
	return flowImplementerSystemPrompt
}

// analyzerPrompt selects the analyzer prompt builder for a tier.
func analyzerPrompt(req *GenerationRequest, tier Tier) string {
	if tier == TierCraft {
		return buildDeepAnalysisPrompt(req)
	}
	return buildQuickAnalysisPrompt(req)
}

// describeStageFailure composes the caller-facing error for an aborted stage.
func describeStageFailure(role StepRole, cause error) string {
	if cause != nil {
		return fmt.Sprintf("%s stage failed: %v", role, cause)
	}
	return fmt.Sprintf("%s stage produced no output", role)
}
