package rendering

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/pdftext"
)

// BlockKind classifies one line of resume text for layout.
type BlockKind string

const (
	KindHeading   BlockKind = "heading"
	KindParagraph BlockKind = "paragraph"
	KindListItem  BlockKind = "list-item"
)

// maxHeadingLength bounds how long an all-caps line may be and still count as a heading.
const maxHeadingLength = 60

// Block is one laid-out line. SpaceBefore is set when blank lines preceded it in the source.
type Block struct {
	Kind        BlockKind
	Text        string
	SpaceBefore bool
}

// ParseDocument splits text into blocks, one per non-empty line.
func ParseDocument(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []Block
	pendingSpace := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			pendingSpace = len(blocks) > 0
			continue
		}
		blocks = append(blocks, Block{
			Kind:        classifyLine(trimmed),
			Text:        trimmed,
			SpaceBefore: pendingSpace,
		})
		pendingSpace = false
	}
	return blocks
}

func classifyLine(line string) BlockKind {
	switch {
	case pdftext.IsListItem(line):
		return KindListItem
	case isHeading(line):
		return KindHeading
	default:
		return KindParagraph
	}
}

// isHeading reports whether line is a short line with letters and no lowercase letters.
func isHeading(line string) bool {
	if len(line) > maxHeadingLength {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// listText strips the list marker so the template can draw its own bullet.
func listText(line string) string {
	if !pdftext.IsListItem(line) {
		return line
	}
	_, size := utf8.DecodeRuneInString(line)
	return strings.TrimSpace(line[size:])
}
