package rendering

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-tailor/internal/fetch"
)

// PDFRenderer prints rendered resume pages to PDF through a headless Chrome
type PDFRenderer struct {
	pool    *fetch.BrowserPool
	verbose bool
}

// NewPDFRenderer creates a renderer that borrows sessions from pool.
func NewPDFRenderer(pool *fetch.BrowserPool, verbose bool) *PDFRenderer {
	return &PDFRenderer{pool: pool, verbose: verbose}
}

// RenderPDF lays out text and prints it to an A4 PDF.
func (r *PDFRenderer) RenderPDF(ctx context.Context, title, text string) ([]byte, error) {
	html, err := RenderHTML(title, text)
	if err != nil {
		return nil, err
	}
	return r.PrintHTML(ctx, html)
}

// PrintHTML prints an HTML document to PDF with A4 paper and the standard margins.
func (r *PDFRenderer) PrintHTML(ctx context.Context, html string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "resume-render-")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temp directory", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &RenderError{Message: "failed to write page", Cause: err}
	}

	var buf []byte
	err = r.pool.Session(ctx, func(tabCtx context.Context) error {
		return chromedp.Run(tabCtx,
			chromedp.Navigate("file://"+htmlPath),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.ActionFunc(func(ctx context.Context) error {
				var err error
				buf, _, err = page.PrintToPDF().
					WithPaperWidth(A4WidthIn).
					WithPaperHeight(A4HeightIn).
					WithMarginTop(MarginIn).
					WithMarginRight(MarginIn).
					WithMarginBottom(MarginIn).
					WithMarginLeft(MarginIn).
					WithPrintBackground(true).
					WithPreferCSSPageSize(true).
					Do(ctx)
				return err
			}),
		)
	})
	if err != nil {
		return nil, &RenderError{Message: "failed to print PDF", Cause: err}
	}

	if r.verbose {
		log.Printf("[PDF] Rendered %d bytes", len(buf))
	}
	return buf, nil
}
