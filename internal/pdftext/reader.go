package pdftext

import (
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Glyph merge tolerances, as fractions of the font size.
const (
	sameLineTolerance = 0.5
	wordGapRatio      = 0.15
	columnGapRatio    = 1.5
)

// ReadPages parses a PDF and returns each page's text fragments.
// A page whose content cannot be decoded yields an empty page instead of failing the document.
func ReadPages(r io.ReaderAt, size int64) (pages []Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, &ReadError{Message: "malformed PDF", Cause: fmt.Errorf("%v", rec)}
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, &ReadError{Message: "not a readable PDF", Cause: err}
	}

	n := reader.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{})
			continue
		}
		pages = append(pages, Page{Fragments: pageFragments(i, p)})
	}
	return pages, nil
}

func pageFragments(num int, p pdf.Page) (fragments []Fragment) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[PDF] Page %d: content could not be decoded: %v", num, rec)
			fragments = nil
		}
	}()
	return MergeGlyphs(p.Content().Text)
}

// MergeGlyphs combines per-glyph text runs into word-level fragments. Glyphs join the current
// fragment when they share its font, size and baseline and start close to where it ended;
// a small gap inserts a space, a large gap starts a new fragment.
func MergeGlyphs(glyphs []pdf.Text) []Fragment {
	var fragments []Fragment
	var cur *Fragment
	var sb strings.Builder
	var end float64

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(sb.String())
		if cur.Text != "" {
			fragments = append(fragments, *cur)
		}
		cur = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		size := g.FontSize
		if size <= 0 {
			size = 1
		}

		if cur != nil && g.Font == cur.FontName && math.Abs(g.FontSize-cur.Height) < 0.01 &&
			math.Abs(g.Y-cur.Y) < sameLineTolerance*size {
			gap := g.X - end
			if gap > -sameLineTolerance*size && gap < columnGapRatio*size {
				if gap > wordGapRatio*size && !strings.HasSuffix(sb.String(), " ") && g.S != " " {
					sb.WriteString(" ")
				}
				sb.WriteString(g.S)
				end = g.X + g.W
				continue
			}
		}

		flush()
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		cur = &Fragment{X: g.X, Y: g.Y, FontName: g.Font, Height: g.FontSize}
		sb.WriteString(g.S)
		end = g.X + g.W
	}
	flush()
	return fragments
}
