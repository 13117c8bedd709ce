package pdftext

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Layout tolerances, in PDF units.
const (
	// MarginThreshold is the vertical distance beyond which a fragment starts a new line.
	// It is also the quantum for the margin column statistic.
	MarginThreshold = 5.0
	// IndentThreshold is the horizontal offset from the first block that counts as indented.
	IndentThreshold = 20.0
	// HeaderSizeRatio marks a block as a header when its font size exceeds the mean by this factor.
	HeaderSizeRatio = 1.2
)

// Fragment is one positioned run of text on a page.
type Fragment struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontName string  `json:"fontName,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// Page holds a page's fragments in reading order.
type Page struct {
	Fragments []Fragment `json:"fragments"`
}

// TextBlock is one reconstructed line with its position and style.
type TextBlock struct {
	Text     string
	X        float64
	Y        float64
	IsBold   bool
	FontSize float64
	IsHeader bool
}

// sectionHeaderRe matches common resume section names followed by a colon.
var sectionHeaderRe = regexp.MustCompile(`(?i)^(EDUCATION|EXPERIENCE|SKILLS|PROJECTS|SUMMARY|OBJECTIVE|CERTIFICATIONS|ACHIEVEMENTS|PUBLICATIONS|LANGUAGES|INTERESTS):`)

// listMarkers are the glyphs that open a list item.
const listMarkers = "•-*⋅∙◦◆◇○●"

// MarginColumn returns the most common x position of the fragments, quantized to MarginThreshold.
// Ties resolve to the smaller position. It returns 0 for no fragments.
func MarginColumn(fragments []Fragment) float64 {
	counts := make(map[float64]int)
	for _, f := range fragments {
		counts[math.Floor(f.X/MarginThreshold+0.5)*MarginThreshold]++
	}

	best, bestCount := 0.0, 0
	for x, n := range counts {
		if n > bestCount || (n == bestCount && x < best) {
			best, bestCount = x, n
		}
	}
	return best
}

// ClusterLines groups a page's fragments into lines. A fragment starts a new line when its y
// differs from the y of the line's first fragment by more than MarginThreshold.
func ClusterLines(fragments []Fragment) []TextBlock {
	if len(fragments) == 0 {
		return nil
	}

	var blocks []TextBlock
	var line []Fragment
	currentY := fragments[0].Y

	flush := func() {
		if block, ok := buildBlock(line); ok {
			blocks = append(blocks, block)
		}
		line = nil
	}

	for _, f := range fragments {
		if math.Abs(f.Y-currentY) > MarginThreshold {
			if len(line) > 0 {
				flush()
			}
			currentY = f.Y
		}
		line = append(line, f)
	}
	if len(line) > 0 {
		flush()
	}
	return blocks
}

// buildBlock joins one line's fragments left to right. Lines with no text are dropped.
func buildBlock(line []Fragment) (TextBlock, bool) {
	sorted := make([]Fragment, len(line))
	copy(sorted, line)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	parts := make([]string, len(sorted))
	var sumX, maxHeight float64
	bold := false
	for i, f := range sorted {
		parts[i] = f.Text
		sumX += f.X
		maxHeight = math.Max(maxHeight, f.Height)
		if strings.Contains(strings.ToLower(f.FontName), "bold") {
			bold = true
		}
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return TextBlock{}, false
	}
	return TextBlock{
		Text:     text,
		X:        sumX / float64(len(sorted)),
		Y:        sorted[0].Y,
		IsBold:   bold,
		FontSize: maxHeight,
	}, true
}

// ClassifyHeaders sets IsHeader on every block. The mean font size is taken over all blocks,
// so blocks must hold the whole document.
func ClassifyHeaders(blocks []TextBlock) []TextBlock {
	if len(blocks) == 0 {
		return blocks
	}

	var sum float64
	for _, b := range blocks {
		sum += b.FontSize
	}
	mean := sum / float64(len(blocks))
	leftEdge := blocks[0].X

	out := make([]TextBlock, len(blocks))
	for i, b := range blocks {
		b.IsHeader = isHeader(b, mean, leftEdge)
		out[i] = b
	}
	return out
}

func isHeader(b TextBlock, meanFontSize, leftEdge float64) bool {
	switch {
	case b.Text == strings.ToUpper(b.Text) && strings.HasSuffix(b.Text, ":"):
		return true
	case b.FontSize > meanFontSize*HeaderSizeRatio:
		return true
	case b.IsBold && b.X < leftEdge+IndentThreshold:
		return true
	default:
		return sectionHeaderRe.MatchString(b.Text)
	}
}

// IsListItem reports whether text opens with a list marker glyph.
func IsListItem(text string) bool {
	r, size := utf8.DecodeRuneInString(text)
	return size > 0 && strings.ContainsRune(listMarkers, r)
}

// Format serializes classified blocks. Headers are set off from preceding body text by a
// blank line; body paragraphs are separated by a blank line unless they follow a header or
// are list items. Blocks indented past IndentThreshold get a two-space prefix.
func Format(blocks []TextBlock) string {
	if len(blocks) == 0 {
		return ""
	}

	var sb strings.Builder
	leftEdge := blocks[0].X
	lastWasHeader := false

	for _, b := range blocks {
		if b.IsHeader {
			if sb.Len() > 0 {
				if lastWasHeader {
					sb.WriteString("\n")
				} else {
					sb.WriteString("\n\n")
				}
			}
			sb.WriteString(b.Text)
			lastWasHeader = true
			continue
		}

		if sb.Len() > 0 {
			if lastWasHeader || IsListItem(b.Text) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		if b.X-leftEdge > IndentThreshold {
			sb.WriteString("  ")
		}
		sb.WriteString(b.Text)
		lastWasHeader = false
	}

	return strings.TrimSpace(sb.String())
}
