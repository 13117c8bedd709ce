// Package pdftext reconstructs section-structured plain text from positioned PDF text fragments.
package pdftext

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when there are no pages to reconstruct.
var ErrEmptyDocument = errors.New("document has no pages")

// ReadError is returned when a PDF cannot be opened or parsed.
type ReadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ReadError) Error() string {
	src := e.Path
	if src == "" {
		src = "(reader)"
	}
	if e.Cause != nil {
		return fmt.Sprintf("failed to read PDF %s: %s: %v", src, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to read PDF %s: %s", src, e.Message)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}
