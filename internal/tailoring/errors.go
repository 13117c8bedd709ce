// Package tailoring rewrites resume text toward a target role or scraped job posting using an LLM.
package tailoring

import (
	"errors"
	"fmt"
)

// ErrNoClient is returned when tailoring is requested without a configured LLM client.
var ErrNoClient = errors.New("LLM client is not configured")

// TailoringError is returned when the LLM call for a role fails.
type TailoringError struct {
	Role  string
	Cause error
}

func (e *TailoringError) Error() string {
	return fmt.Sprintf("failed to tailor resume for %s: %v", e.Role, e.Cause)
}

func (e *TailoringError) Unwrap() error {
	return e.Cause
}
