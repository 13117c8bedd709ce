package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"collapses spaces", "Line    with    multiple    spaces", "Line with multiple spaces"},
		{"normalizes line endings", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"limits blank lines", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"strips indentation", "   indented\n\t- bullet", "indented\n- bullet"},
		{"trims document", "\n\n  body  \n\n", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "Acme Corp", CollapseSpace("\n    Acme   Corp\n  "))
	assert.Equal(t, "", CollapseSpace(" \t\n"))
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "paragraphs become lines",
			input: "<p>First paragraph.</p><p>Second paragraph.</p>",
			want:  "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:  "list items become bullets",
			input: "<ul><li>Go</li><li>Kubernetes</li></ul>",
			want:  "• Go\n• Kubernetes",
		},
		{
			name:  "list item content wrapped in paragraphs",
			input: "<ul><li><p>Strong Go skills</p></li><li class=\"x\"><div><p>Kubernetes in production</p></div></li></ul>",
			want:  "• Strong Go skills\n• Kubernetes in production",
		},
		{
			name:  "list item with nested block after inline tag",
			input: "<ul><li><span><p>Terraform</p></span></li></ul>",
			want:  "• Terraform",
		},
		{
			name:  "line breaks kept",
			input: "Line one<br>Line two<br/>Line three",
			want:  "Line one\nLine two\nLine three",
		},
		{
			name:  "entities decoded",
			input: "<strong>R&amp;D</strong>&nbsp;team &lt;remote&gt;",
			want:  "R&D team <remote>",
		},
		{
			name:  "inline tags stripped",
			input: "<span>Work with <em>great</em> people</span>",
			want:  "Work with great people",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTMLToText(tt.input))
		})
	}
}
