package rendering

import (
	"embed"
	"html/template"
	"strings"
	"sync"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

// Page layout in the units the print path expects.
const (
	MarginMM   = 20
	FontSizePt = 11
	A4WidthIn  = 8.27
	A4HeightIn = 11.69
	// MarginIn is MarginMM converted to inches.
	MarginIn = MarginMM / 25.4
)

// TemplateData represents the data passed to the HTML page template
type TemplateData struct {
	Title      string
	MarginMM   int
	FontSizePt int
	Blocks     []blockView
}

type blockView struct {
	Class string
	Text  string
}

var (
	pageTemplate     *template.Template
	pageTemplateErr  error
	pageTemplateOnce sync.Once
)

func loadTemplate() (*template.Template, error) {
	pageTemplateOnce.Do(func() {
		pageTemplate, pageTemplateErr = template.ParseFS(templateFS, "templates/resume.html.tmpl")
	})
	if pageTemplateErr != nil {
		return nil, &TemplateError{Message: "failed to parse page template", Cause: pageTemplateErr}
	}
	return pageTemplate, nil
}

// RenderHTML lays text out as a printable A4 HTML page. Text is escaped by html/template.
func RenderHTML(title, text string) (string, error) {
	blocks := ParseDocument(text)
	if len(blocks) == 0 {
		return "", ErrEmptyText
	}

	tmpl, err := loadTemplate()
	if err != nil {
		return "", err
	}

	data := TemplateData{
		Title:      title,
		MarginMM:   MarginMM,
		FontSizePt: FontSizePt,
		Blocks:     make([]blockView, len(blocks)),
	}
	for i, b := range blocks {
		data.Blocks[i] = toView(b)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	return sb.String(), nil
}

func toView(b Block) blockView {
	classes := []string{string(b.Kind)}
	if b.SpaceBefore && b.Kind != KindHeading {
		classes = append(classes, "space")
	}
	text := b.Text
	if b.Kind == KindListItem {
		text = listText(text)
	}
	return blockView{Class: strings.Join(classes, " "), Text: text}
}
