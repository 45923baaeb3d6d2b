// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle conversational preamble before a JSON object or array
	if idx := strings.IndexAny(text, "{["); idx > 0 {
		text = text[idx:]
	}
	if strings.HasPrefix(text, "{") {
		if obj := ExtractJSONObject(text); obj != "" {
			return obj
		}
	}
	if strings.HasPrefix(text, "[") {
		if arr := extractJSONDelimited(text, '[', ']'); arr != "" {
			return arr
		}
	}

	return text
}

// ExtractJSONObject returns the first balanced JSON object in text, or ""
// when text does not start with one. Braces inside string literals are
// handled; this is a scanner, not a parser, so the result still needs
// json.Unmarshal.
func ExtractJSONObject(text string) string {
	return extractJSONDelimited(text, '{', '}')
}

func extractJSONDelimited(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
			// Delimiters inside strings are content, not structure
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
