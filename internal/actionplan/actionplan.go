// Package actionplan parses and validates the structured plans produced by
// the implementer stage of a tier chain.
package actionplan

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/creator-agent/internal/llm"
	"github.com/jonathan/creator-agent/internal/schemas"
)

// Action is a single site mutation within a plan
type Action struct {
	Type   string         `json:"type"`
	Target string         `json:"target,omitempty"`
	Params map[string]any `json:"params,omitempty"`
	Code   string         `json:"code,omitempty"`
}

// ActionPlan is the structured output of an implementer stage
type ActionPlan struct {
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Actions    []Action `json:"actions"`
	Message    string   `json:"message"`
}

// ParseError describes why model output could not be turned into a plan
type ParseError struct {
	Stage string // "clean", "unmarshal", or "schema"
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("action plan %s failed: %v", e.Stage, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse extracts an ActionPlan from raw model output. The output may be
// wrapped in markdown fences or preceded by conversational text; both are
// stripped before parsing. The resulting document must satisfy the action
// plan schema.
func Parse(raw string) (*ActionPlan, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &ParseError{Stage: "clean", Cause: fmt.Errorf("model output contains no JSON")}
	}

	if err := schemas.ValidateActionPlan(cleaned); err != nil {
		return nil, &ParseError{Stage: "schema", Cause: err}
	}

	var plan ActionPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, &ParseError{Stage: "unmarshal", Cause: err}
	}

	return &plan, nil
}

// HasMutations reports whether the plan changes anything on the site.
// Question-answering plans come back with an empty action list.
func (p *ActionPlan) HasMutations() bool {
	return len(p.Actions) > 0
}

// CodeActions returns the actions carrying a raw code payload. These are the
// ones worth running through syntactic validation before execution.
func (p *ActionPlan) CodeActions() []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Code != "" {
			out = append(out, a)
		}
	}
	return out
}
