package ingestion

import (
	"html"
	"regexp"
	"strings"
)

var (
	interTagBreakRe = regexp.MustCompile(`>\s*\n\s*<`)
	lineBreakTagRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	listItemTagRe   = regexp.MustCompile(`(?i)<li(?:\s[^>]*)?>`)
	listOpenBlockRe = regexp.MustCompile(`(?i)(<li(?:\s[^>]*)?>)(?:\s*<(?:p|div)(?:\s[^>]*)?>)+`)
	listEndBlockRe  = regexp.MustCompile(`(?i)(?:</(?:p|div)>\s*)+(</li>)`)
	bulletBreakRe   = regexp.MustCompile(`•[ \t]*\n\s*([^•\s])`)
	blockTagRe      = regexp.MustCompile(`(?i)</?(?:p|div|ul|ol|h[1-6]|section|article|tr|table)(?:\s[^>]*)?>`)
	anyTagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	blankLinesRe    = regexp.MustCompile(`\n\n\n+`)
)

// CollapseSpace trims s and replaces every whitespace run with a single space.
func CollapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(s, " "))
}

// HTMLToText converts an HTML fragment into plain text while keeping its line structure.
// Block elements end lines and list items become "• " bullets, including items
// whose content is wrapped in a paragraph or div.
func HTMLToText(fragment string) string {
	text := interTagBreakRe.ReplaceAllString(fragment, "><")
	text = lineBreakTagRe.ReplaceAllString(text, "\n")
	text = listOpenBlockRe.ReplaceAllString(text, "$1")
	text = listEndBlockRe.ReplaceAllString(text, "$1")
	text = listItemTagRe.ReplaceAllString(text, "\n• ")
	text = blockTagRe.ReplaceAllString(text, "\n")
	text = anyTagRe.ReplaceAllString(text, "")
	// A block nested deeper inside a list item still must not split the bullet from its text.
	text = bulletBreakRe.ReplaceAllString(text, "• $1")
	text = html.UnescapeString(text)
	return CleanText(text)
}

// CleanText normalizes line endings, collapses spaces within each line, and
// keeps at most one blank line between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, CollapseSpace(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankLinesRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
