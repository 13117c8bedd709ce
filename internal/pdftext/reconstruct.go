package pdftext

import (
	"io"
	"log"
	"os"
	"strings"
	"unicode"
)

// Analysis holds simple statistics about reconstructed text.
type Analysis struct {
	WordCount      int `json:"wordCount"`
	CharacterCount int `json:"characterCount"`
}

// Result is the reconstructed text of a document with its statistics.
type Result struct {
	Text     string   `json:"text"`
	Pages    int      `json:"pages"`
	Analysis Analysis `json:"analysis"`
}

// Reconstruct rebuilds section-structured text from a document's pages.
// Pages with no usable content contribute nothing; only an empty page set is an error.
func Reconstruct(pages []Page, verbose bool) (string, error) {
	if len(pages) == 0 {
		return "", ErrEmptyDocument
	}

	var blocks []TextBlock
	for i, page := range pages {
		lines := ClusterLines(page.Fragments)
		if verbose {
			log.Printf("[PDF] Page %d: %d fragments, %d lines, margin column x=%.0f",
				i+1, len(page.Fragments), len(lines), MarginColumn(page.Fragments))
		}
		blocks = append(blocks, lines...)
	}

	blocks = ClassifyHeaders(blocks)
	if verbose {
		headers := 0
		for _, b := range blocks {
			if b.IsHeader {
				headers++
			}
		}
		log.Printf("[PDF] %d blocks, %d headers", len(blocks), headers)
	}
	return Format(blocks), nil
}

// Analyze counts whitespace-separated words and non-whitespace characters.
func Analyze(text string) Analysis {
	chars := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			chars++
		}
	}
	return Analysis{
		WordCount:      len(strings.Fields(text)),
		CharacterCount: chars,
	}
}

// ReconstructReader reads a PDF and returns its reconstructed text and statistics.
func ReconstructReader(r io.ReaderAt, size int64, verbose bool) (*Result, error) {
	pages, err := ReadPages(r, size)
	if err != nil {
		return nil, err
	}
	text, err := Reconstruct(pages, verbose)
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Pages: len(pages), Analysis: Analyze(text)}, nil
}

// ReconstructFile reads the PDF at path and returns its reconstructed text and statistics.
func ReconstructFile(path string, verbose bool) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Message: "cannot open file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, &ReadError{Path: path, Message: "cannot stat file", Cause: err}
	}
	result, err := ReconstructReader(f, info.Size(), verbose)
	if err != nil {
		if readErr, ok := err.(*ReadError); ok {
			readErr.Path = path
		}
		return nil, err
	}
	return result, nil
}
