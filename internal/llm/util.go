// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// StripCodeFence removes a markdown code fence wrapping the whole response.
// Models sometimes wrap plain-text answers in ``` blocks even when not asked to.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return trimmed
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
	// Skip a language identifier on the opening line
	if idx := strings.Index(inner, "\n"); idx >= 0 {
		firstLine := inner[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			inner = inner[idx+1:]
		}
	}
	return strings.TrimSpace(inner)
}
