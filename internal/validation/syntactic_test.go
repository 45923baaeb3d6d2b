package validation

import (
	"strings"
	"testing"
)

func TestSyntactic_BalancedPHP(t *testing.T) {
	result := Syntactic("<?php if(true){ echo 1; } ?>")
	if !result.Valid {
		t.Errorf("balanced PHP should validate, got errors: %v", result.Errors)
	}
	if result.Errors != nil {
		t.Errorf("errors must be nil when empty, got %v", result.Errors)
	}
}

func TestSyntactic_UnbalancedPHP(t *testing.T) {
	result := Syntactic("<?php if(true){ echo 1; ?>")
	if result.Valid {
		t.Fatal("unbalanced PHP should fail validation")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0], "unbalanced braces") {
		t.Errorf("error should mention unbalanced braces, got %q", result.Errors[0])
	}
}

func TestSyntactic_JSONLeniency(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json at all", "not json at all"},
		{"malformed leading brace", `{"broken": `},
		{"malformed fenced json", "```json\n{\"broken\": \n```"},
		{"plain prose", "Here is how you create a page."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Syntactic(tt.content)
			if !result.Valid {
				t.Errorf("unparseable non-code content must not be an error, got %v", result.Errors)
			}
		})
	}
}

func TestSyntactic_JavaScriptBlocks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{
			name:    "balanced js block",
			content: "Use this:\n```javascript\nfunction f() { return (1 + 2); }\n```",
			valid:   true,
		},
		{
			name:    "unbalanced js block",
			content: "Use this:\n```js\nconst f = () => { if (x) { return 1; }\n```",
			valid:   false,
		},
		{
			name: "unbalanced braces outside any fence are ignored",
			// "function" appears, but there is no fenced js block to check
			content: "call the function like this: f({",
			valid:   true,
		},
		{
			name:    "python fence is not checked",
			content: "let x = 1\n```python\ndef f(:\n```",
			valid:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Syntactic(tt.content)
			if result.Valid != tt.valid {
				t.Errorf("Syntactic() valid = %t, want %t (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
		})
	}
}

func TestSyntactic_MultiplePHPSpans(t *testing.T) {
	content := "<?php echo 1; ?> some text <?php if({ ?>"
	result := Syntactic(content)
	if result.Valid {
		t.Fatal("second span is unbalanced, validation should fail")
	}
	if len(result.Errors) != 1 {
		t.Errorf("only the unbalanced span should be flagged, got %d errors", len(result.Errors))
	}
}

func TestSyntactic_UnterminatedPHPSpan(t *testing.T) {
	// No closing tag: the span runs to end of content
	result := Syntactic("<?php function f() { return 1; }")
	if !result.Valid {
		t.Errorf("balanced unterminated span should pass, got %v", result.Errors)
	}

	result = Syntactic("<?php function f() { return 1;")
	if result.Valid {
		t.Error("unbalanced unterminated span should fail")
	}
}

func TestSyntactic_KnownBlindSpot_BracesInStrings(t *testing.T) {
	// Braces inside string literals are counted: this is the documented
	// blind spot of the heuristic and must be preserved.
	result := Syntactic(`<?php echo "{"; ?>`)
	if result.Valid {
		t.Error("brace inside a string literal is still counted, span should look unbalanced")
	}
}

func TestSyntactic_ValidActionPlanJSON(t *testing.T) {
	result := Syntactic(`{"intent":"create_page","confidence":0.9,"actions":[],"message":"ok"}`)
	if !result.Valid {
		t.Errorf("plain JSON action plan should validate, got %v", result.Errors)
	}
}

func TestExtractPHPSpans(t *testing.T) {
	spans := extractPHPSpans("a <?php one ?> b <?php two ?> c")
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0] != "<?php one ?>" || spans[1] != "<?php two ?>" {
		t.Errorf("unexpected spans: %q", spans)
	}
}

func TestExtractFencedBlocks(t *testing.T) {
	content := "```js\nalert(1)\n```\n```json\n{}\n```\n```javascript\nalert(2)\n```"
	blocks := extractFencedBlocks(content, "javascript", "js")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 js blocks, got %d: %q", len(blocks), blocks)
	}
}
