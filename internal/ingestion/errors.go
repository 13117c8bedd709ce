// Package ingestion turns job posting URLs into structured JobDetails records.
package ingestion

import (
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by a Store when no entry exists for a URL.
var ErrCacheMiss = errors.New("cache miss")

// InvalidInputError is returned before any network work when the input is unusable.
type InvalidInputError struct {
	Input   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %q", e.Message, e.Input)
}

// FetchError is returned when the page could not be retrieved after retries.
type FetchError struct {
	URL        string
	Attempts   int
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("failed to fetch %s after %d attempt(s)", e.URL, e.Attempts)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (last status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ExtractionError is returned when no description could be resolved from the page.
// Retrying does not help: the markup will not change.
type ExtractionError struct {
	URL      string
	Strategy Strategy
	Message  string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed for %s: %s", e.Strategy, e.URL, e.Message)
}

// BrowserError is returned when the browser could not be started for a scrape.
type BrowserError struct {
	URL   string
	Cause error
}

func (e *BrowserError) Error() string {
	return fmt.Sprintf("browser unavailable for %s: %v", e.URL, e.Cause)
}

func (e *BrowserError) Unwrap() error {
	return e.Cause
}

// FormatError is returned when a worker proxy answers with a payload that is not a JobDetails record.
type FormatError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unexpected worker response for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("unexpected worker response for %s: %s", e.URL, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}
