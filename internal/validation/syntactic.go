// Package validation provides deterministic, model-free checks on generated
// output. The syntactic check is a heuristic smoke test, not a parser: it
// counts braces and parentheses in embedded code spans and knowingly
// miscounts delimiters inside string literals and comments.
package validation

import (
	"encoding/json"
	"strings"
)

// Result is the outcome of a deterministic validation pass.
// Errors is nil, not empty, when nothing was flagged.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

const (
	phpBalanceError = "Potential unbalanced braces/parentheses in PHP code"
	jsBalanceError  = "Potential unbalanced braces/parentheses in JavaScript code"
)

// Syntactic inspects generated content for structural well-formedness of
// embedded code. It never calls a model and never fails: malformed input
// degrades to "no errors found".
func Syntactic(content string) Result {
	var errors []string

	// Embedded JSON gets a parse attempt, but parse failure is not an
	// error: this check flags embedded-language structure only, not
	// top-level JSON shape.
	if candidate := jsonCandidate(content); candidate != "" {
		var ignored any
		_ = json.Unmarshal([]byte(candidate), &ignored)
	}

	if strings.Contains(content, "<?php") {
		for _, span := range extractPHPSpans(content) {
			if !delimitersBalanced(span) {
				errors = append(errors, phpBalanceError)
			}
		}
	}

	if strings.Contains(content, "function") || strings.Contains(content, "const") || strings.Contains(content, "let") {
		for _, block := range extractFencedBlocks(content, "javascript", "js") {
			if !delimitersBalanced(block) {
				errors = append(errors, jsBalanceError)
			}
		}
	}

	return Result{Valid: len(errors) == 0, Errors: errors}
}

// jsonCandidate returns the text to attempt parsing as JSON: a fenced block
// tagged json, or the whole content when it starts with an object brace.
func jsonCandidate(content string) string {
	if blocks := extractFencedBlocks(content, "json"); len(blocks) > 0 {
		return blocks[0]
	}
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return content
	}
	return ""
}

// extractPHPSpans returns every <?php ... ?> span in content. A span with no
// closing tag runs to the end of the content.
func extractPHPSpans(content string) []string {
	var spans []string
	rest := content
	for {
		start := strings.Index(rest, "<?php")
		if start < 0 {
			return spans
		}
		rest = rest[start:]
		end := strings.Index(rest, "?>")
		if end < 0 {
			spans = append(spans, rest)
			return spans
		}
		spans = append(spans, rest[:end+2])
		rest = rest[end+2:]
	}
}

// extractFencedBlocks returns the bodies of markdown code fences whose
// language tag matches one of tags.
func extractFencedBlocks(content string, tags ...string) []string {
	var blocks []string
	rest := content
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return blocks
		}
		rest = rest[start+3:]

		newline := strings.Index(rest, "\n")
		if newline < 0 {
			return blocks
		}
		tag := strings.TrimSpace(rest[:newline])
		body := rest[newline+1:]

		end := strings.Index(body, "```")
		if end < 0 {
			// Unterminated fence: take the remainder when the tag matches
			if matchesTag(tag, tags) {
				blocks = append(blocks, body)
			}
			return blocks
		}
		if matchesTag(tag, tags) {
			blocks = append(blocks, body[:end])
		}
		rest = body[end+3:]
	}
}

func matchesTag(tag string, tags []string) bool {
	for _, t := range tags {
		if strings.EqualFold(tag, t) {
			return true
		}
	}
	return false
}

// delimitersBalanced counts curly braces and parentheses in a span. This is
// a raw count: delimiters inside strings or comments are counted too, which
// is the intended blind spot of the heuristic.
func delimitersBalanced(span string) bool {
	braces, parens := 0, 0
	for i := 0; i < len(span); i++ {
		switch span[i] {
		case '{':
			braces++
		case '}':
			braces--
		case '(':
			parens++
		case ')':
			parens--
		}
	}
	return braces == 0 && parens == 0
}
