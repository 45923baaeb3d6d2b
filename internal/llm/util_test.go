package llm

import (
	"encoding/json"
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"key\": \"value\"}\n```",
			want:  `{"key": "value"}`,
		},
		{
			name:  "generic fence with language tag",
			input: "```javascript\n{\"key\": \"value\"}\n```",
			want:  `{"key": "value"}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"key\": \"value\"}\n```",
			want:  `{"key": "value"}`,
		},
		{
			name:  "no fence",
			input: `{"key": "value"}`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "conversational preamble",
			input: `Sure, here is the plan: {"key": "value"}`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "preamble and trailing commentary",
			input: `Here you go: {"key": "value"} Let me know if that works.`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "array with preamble",
			input: `The actions are: [{"type": "create"}]`,
			want:  `[{"type": "create"}]`,
		},
		{
			name:  "braces inside string survive extraction",
			input: `{"message": "use {placeholder} here"}`,
			want:  `{"message": "use {placeholder} here"}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```json\n{\"a\": 1}\n```\n  ",
			want:  `{"a": 1}`,
		},
		{
			name:  "plain text unchanged",
			input: "no json here",
			want:  "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanJSONBlock(tt.input)
			if got != tt.want {
				t.Errorf("CleanJSONBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanJSONBlock_ResultParses(t *testing.T) {
	raw := "Here is your action plan:\n```json\n{\"intent\": \"create_page\", \"confidence\": 0.9}\n```\nHope that helps!"

	cleaned := CleanJSONBlock(raw)
	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		t.Fatalf("cleaned output should parse as JSON: %v (got %q)", err, cleaned)
	}
	if out["intent"] != "create_page" {
		t.Errorf("intent = %v, want create_page", out["intent"])
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `{"a": 1}`, `{"a": 1}`},
		{"nested", `{"a": {"b": 2}} trailing`, `{"a": {"b": 2}}`},
		{"escaped quote in string", `{"a": "he said \"{\" once"} rest`, `{"a": "he said \"{\" once"}`},
		{"does not start with brace", `text {"a": 1}`, ""},
		{"unterminated", `{"a": 1`, ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.input); got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
