package pdftext

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct_HeaderRoundTrip(t *testing.T) {
	pages := []Page{{Fragments: []Fragment{
		{Text: "EDUCATION:", X: 0, Y: 100, Height: 14},
		{Text: "MIT", X: 0, Y: 80, Height: 10},
	}}}

	text, err := Reconstruct(pages, false)
	require.NoError(t, err)
	assert.Equal(t, "EDUCATION:\nMIT", text)
}

func TestReconstruct_EmptyDocument(t *testing.T) {
	_, err := Reconstruct(nil, false)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Reconstruct([]Page{}, false)
	assert.True(t, errors.Is(err, ErrEmptyDocument))
}

func TestReconstruct_EmptyPagesYieldEmptyText(t *testing.T) {
	text, err := Reconstruct([]Page{{}, {Fragments: []Fragment{{Text: "   ", X: 10, Y: 10}}}}, false)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestClusterLines(t *testing.T) {
	fragments := []Fragment{
		{Text: "Doe", X: 60, Y: 700, FontName: "Helvetica-Bold", Height: 18},
		{Text: "Jane", X: 20, Y: 702, FontName: "Helvetica", Height: 12},
		{Text: "Software", X: 20, Y: 680, Height: 10},
		{Text: "Engineer", X: 70, Y: 684, Height: 11},
		{Text: "Boston", X: 40, Y: 660, Height: 10},
	}

	blocks := ClusterLines(fragments)
	require.Len(t, blocks, 3)

	assert.Equal(t, "Jane Doe", blocks[0].Text)
	assert.InDelta(t, 40.0, blocks[0].X, 1e-9)
	assert.Equal(t, 702.0, blocks[0].Y, "y comes from the leftmost fragment")
	assert.True(t, blocks[0].IsBold)
	assert.Equal(t, 18.0, blocks[0].FontSize)

	assert.Equal(t, "Software Engineer", blocks[1].Text)
	assert.False(t, blocks[1].IsBold)
	assert.Equal(t, 11.0, blocks[1].FontSize)

	assert.Equal(t, "Boston", blocks[2].Text)
}

func TestClusterLines_ThresholdMeasuredFromLineStart(t *testing.T) {
	// Each step is within the threshold of the previous fragment but the
	// third drifts more than 5 units from where the line began.
	blocks := ClusterLines([]Fragment{
		{Text: "a", X: 0, Y: 100},
		{Text: "b", X: 10, Y: 97},
		{Text: "c", X: 20, Y: 94},
	})
	require.Len(t, blocks, 2)
	assert.Equal(t, "a b", blocks[0].Text)
	assert.Equal(t, "c", blocks[1].Text)
}

func TestClusterLines_Empty(t *testing.T) {
	assert.Empty(t, ClusterLines(nil))
}

func TestMarginColumn(t *testing.T) {
	tests := []struct {
		name      string
		fragments []Fragment
		want      float64
	}{
		{"empty", nil, 0},
		{"mode wins", []Fragment{{X: 71.9}, {X: 72.4}, {X: 140}, {X: 73}}, 70},
		{"rounds half up", []Fragment{{X: 2.5}}, 5},
		{"tie picks smaller", []Fragment{{X: 100}, {X: 50}}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarginColumn(tt.fragments))
		})
	}
}

func TestClassifyHeaders_Rules(t *testing.T) {
	blocks := ClassifyHeaders([]TextBlock{
		{Text: "Jane Doe", X: 10, FontSize: 10},
		{Text: "WORK HISTORY:", X: 10, FontSize: 10},
		{Text: "ALL CAPS NO COLON", X: 10, FontSize: 10},
		{Text: "Big Title", X: 10, FontSize: 20},
		{Text: "Bold near margin", X: 25, FontSize: 10, IsBold: true},
		{Text: "Bold far right", X: 40, FontSize: 10, IsBold: true},
		{Text: "skills: Go, SQL", X: 200, FontSize: 10},
		{Text: "Experience", X: 200, FontSize: 10},
	})

	want := []bool{false, true, false, true, true, false, true, false}
	for i, b := range blocks {
		assert.Equal(t, want[i], b.IsHeader, b.Text)
	}
}

func TestClassifyHeaders_MonotoneInFontSize(t *testing.T) {
	base := []TextBlock{
		{Text: "body one", X: 100, FontSize: 10},
		{Text: "body two", X: 150, FontSize: 11},
		{Text: "lowercase line", X: 300, FontSize: 10},
		{Text: "another line", X: 300, FontSize: 9},
	}
	for _, size := range []float64{20, 40, 100} {
		blocks := append([]TextBlock{}, base...)
		blocks[2].FontSize = size
		var sum float64
		for _, b := range blocks {
			sum += b.FontSize
		}
		require.Greater(t, size, sum/float64(len(blocks))*HeaderSizeRatio)

		classified := ClassifyHeaders(blocks)
		assert.True(t, classified[2].IsHeader, "size %v", size)
		assert.False(t, classified[0].IsHeader)
	}
}

func TestClassifyHeaders_DoesNotMutateInput(t *testing.T) {
	in := []TextBlock{{Text: "SKILLS:", FontSize: 10}}
	out := ClassifyHeaders(in)
	assert.False(t, in[0].IsHeader)
	assert.True(t, out[0].IsHeader)
}

func TestFormat(t *testing.T) {
	blocks := []TextBlock{
		{Text: "Jane Doe", X: 50},
		{Text: "Boston, MA", X: 50},
		{Text: "EXPERIENCE:", X: 50, IsHeader: true},
		{Text: "Acme Corp", X: 50, IsHeader: true},
		{Text: "Senior Engineer", X: 50},
		{Text: "• Led the platform team", X: 80},
		{Text: "- Cut latency 40%", X: 80},
		{Text: "Reference available", X: 50},
	}

	want := strings.Join([]string{
		"Jane Doe",
		"",
		"Boston, MA",
		"",
		"EXPERIENCE:",
		"Acme Corp",
		"Senior Engineer",
		"  • Led the platform team",
		"  - Cut latency 40%",
		"",
		"Reference available",
	}, "\n")
	assert.Equal(t, want, Format(blocks))
}

func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, "", Format(nil))
}

func TestIsListItem(t *testing.T) {
	for _, s := range []string{"• a", "- a", "* a", "⋅ a", "∙ a", "◦ a", "◆ a", "◇ a", "○ a", "● a"} {
		assert.True(t, IsListItem(s), s)
	}
	assert.False(t, IsListItem("a • b"))
	assert.False(t, IsListItem(""))
}

func TestAnalyze(t *testing.T) {
	assert.Equal(t, Analysis{WordCount: 4, CharacterCount: 21}, Analyze("  Jane Doe\n\nSenior   Engineer "))
	assert.Equal(t, Analysis{}, Analyze(""))
}

func TestMergeGlyphs(t *testing.T) {
	glyph := func(s string, x float64) pdf.Text {
		return pdf.Text{Font: "Helvetica", FontSize: 10, X: x, Y: 700, W: 5, S: s}
	}
	glyphs := []pdf.Text{
		glyph("H", 0), glyph("i", 5), // contiguous
		glyph("t", 12), glyph("o", 17), // small gap: one word break
		glyph(" ", 22),
		glyph("x", 28),
		glyph("F", 200), // column gap: new fragment
		{Font: "Helvetica-Bold", FontSize: 10, X: 205, Y: 700, W: 5, S: "B"}, // font change
		{Font: "Helvetica", FontSize: 10, X: 0, Y: 680, W: 5, S: "N"},        // new baseline
	}

	fragments := MergeGlyphs(glyphs)
	require.Len(t, fragments, 4)
	assert.Equal(t, Fragment{Text: "Hi to x", X: 0, Y: 700, FontName: "Helvetica", Height: 10}, fragments[0])
	assert.Equal(t, "F", fragments[1].Text)
	assert.Equal(t, 200.0, fragments[1].X)
	assert.Equal(t, "B", fragments[2].Text)
	assert.Equal(t, "Helvetica-Bold", fragments[2].FontName)
	assert.Equal(t, "N", fragments[3].Text)
	assert.Equal(t, 680.0, fragments[3].Y)
}

func TestReadPages_NotAPDF(t *testing.T) {
	data := []byte("this is plain text, not a PDF")
	_, err := ReadPages(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)

	var readErr *ReadError
	assert.ErrorAs(t, err, &readErr)
}
