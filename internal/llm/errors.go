package llm

import "fmt"

// FormatError is returned when a provider answers with an unexpected response shape.
type FormatError struct {
	Provider Provider
	Message  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unexpected %s response: %s", e.Provider, e.Message)
}

// APIError is returned when the provider rejects the request or cannot be reached.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s API error", e.Provider)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
