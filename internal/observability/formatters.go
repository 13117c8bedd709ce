// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/pdftext"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLines is how many lines of long text a box shows
	previewLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the inner box width, counting runes.
func pad(line string) string {
	inner := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > inner {
		runes := []rune(line)
		return string(runes[:inner-3]) + "..."
	}
	return line + strings.Repeat(" ", inner-n)
}

// writeList appends up to maxItemsToShow items under heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintJobDetails outputs a human-readable summary of a scraped job posting.
func (p *Printer) PrintJobDetails(details *types.JobDetails) {
	if details == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", details.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", details.Company))
	sb.WriteString(fmt.Sprintf("Location: %s\n", details.Location))
	if v := details.EmploymentTypeValue(); v != "" {
		sb.WriteString(fmt.Sprintf("Type:     %s\n", v))
	}
	if v := details.PostedDateValue(); v != "" {
		sb.WriteString(fmt.Sprintf("Posted:   %s\n", v))
	}
	sb.WriteString(fmt.Sprintf("Description: %d chars\n\n", len(details.Description)))

	writeList(&sb, "Requirements", details.Requirements)
	writeList(&sb, "Skills", details.Skills)

	p.printBox("JOB DETAILS", sb.String())
}

// PrintReconstruction outputs page and word statistics with a preview of the reconstructed text.
func (p *Printer) PrintReconstruction(result *pdftext.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pages:      %d\n", result.Pages))
	sb.WriteString(fmt.Sprintf("Words:      %d\n", result.Analysis.WordCount))
	sb.WriteString(fmt.Sprintf("Characters: %d\n", result.Analysis.CharacterCount))

	lines := strings.Split(result.Text, "\n")
	if result.Text != "" {
		sb.WriteString("\n")
		for _, line := range lines[:min(len(lines), previewLines)] {
			sb.WriteString(line + "\n")
		}
		if len(lines) > previewLines {
			sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-previewLines))
		}
	}

	p.printBox("RECONSTRUCTED RESUME", sb.String())
}

// PrintTailoringSummary outputs which target a resume was tailored toward and how its length changed.
func (p *Printer) PrintTailoringSummary(target string, original, tailored string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target:   %s\n", target))
	sb.WriteString(fmt.Sprintf("Original: %d words\n", pdftext.Analyze(original).WordCount))
	sb.WriteString(fmt.Sprintf("Tailored: %d words\n", pdftext.Analyze(tailored).WordCount))
	p.printBox("TAILORED RESUME", sb.String())
}
