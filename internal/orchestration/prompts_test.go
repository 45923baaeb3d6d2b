package orchestration

import (
	"strings"
	"testing"
)

func TestBuildQuickAnalysisPrompt(t *testing.T) {
	req := &GenerationRequest{
		Prompt:  "add a contact form",
		Context: map[string]any{"site_name": "Demo Site", "theme": "storefront"},
	}

	prompt := buildQuickAnalysisPrompt(req)

	for _, want := range []string{"Intent", "Entities", "Requirements", "Risks", "add a contact form", "Demo Site"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("quick analysis prompt missing %q", want)
		}
	}
}

func TestBuildDeepAnalysisPrompt_FiveSections(t *testing.T) {
	req := &GenerationRequest{Prompt: "migrate the blog"}
	prompt := buildDeepAnalysisPrompt(req)

	sections := []string{"Intent Analysis", "Technical Scope", "Dependencies", "Risk Assessment", "Complexity Estimate"}
	for _, s := range sections {
		if !strings.Contains(prompt, s) {
			t.Errorf("deep analysis prompt missing section %q", s)
		}
	}
}

func TestBuildStrategyPrompt_ThreadsAnalysis(t *testing.T) {
	req := &GenerationRequest{Prompt: "original ask"}
	prompt := buildStrategyPrompt(req, "the analyzer said things")

	if !strings.Contains(prompt, "the analyzer said things") {
		t.Error("strategy prompt must embed the analyzer output")
	}
	if !strings.Contains(prompt, "original ask") {
		t.Error("strategy prompt must embed the original request")
	}
	for _, part := range []string{"Architecture", "Rollback plan", "Test strategy"} {
		if !strings.Contains(prompt, part) {
			t.Errorf("strategy prompt missing %q", part)
		}
	}
}

func TestBuildImplementationPrompt_JSONShape(t *testing.T) {
	req := &GenerationRequest{Prompt: "do it"}
	prompt := buildImplementationPrompt(req, "the brief")

	for _, field := range []string{`"intent"`, `"confidence"`, `"actions"`, `"message"`} {
		if !strings.Contains(prompt, field) {
			t.Errorf("implementation prompt missing required field %s", field)
		}
	}
	if !strings.Contains(prompt, "the brief") {
		t.Error("implementation prompt must embed the brief")
	}
}

func TestSerializeContext(t *testing.T) {
	tests := []struct {
		name    string
		context map[string]any
		want    string
	}{
		{"nil context", nil, "(no site context provided)"},
		{"empty context", map[string]any{}, "(no site context provided)"},
		{"simple context", map[string]any{"key": "value"}, `"key": "value"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializeContext(tt.context)
			if !strings.Contains(got, tt.want) {
				t.Errorf("serializeContext() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestImplementerSystemPrompt(t *testing.T) {
	withCaller := &GenerationRequest{SystemPrompt: "caller wins"}
	if got := implementerSystemPrompt(withCaller, TierCraft); got != "caller wins" {
		t.Errorf("caller system prompt should win, got %q", got)
	}

	without := &GenerationRequest{}
	flow := implementerSystemPrompt(without, TierFlow)
	craft := implementerSystemPrompt(without, TierCraft)
	if flow == "" || craft == "" {
		t.Fatal("tier defaults must be non-empty")
	}
	if flow == craft {
		t.Error("flow and craft must have distinct default system prompts")
	}
	if !strings.Contains(craft, "security") {
		t.Error("craft default should emphasize security")
	}
}
