package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pdftext"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

// Response messages returned to API clients.
const (
	msgMissingScrapeFields = "Both LinkedIn job URL and resume text are required"
	msgInvalidJobURL       = "Invalid LinkedIn job URL. Please provide a URL from linkedin.com/jobs/"
	msgExtractionFailed    = "Failed to extract job description. Please check the URL and try again."
	msgScrapeFailed        = "Failed to process LinkedIn job posting"
	msgTailorFailed        = "Failed to tailor resume"
	msgRenderFailed        = "Failed to render PDF"
	msgNotFound            = "API endpoint not found"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		invalidInput  *ingestion.InvalidInputError
		extractionErr *ingestion.ExtractionError
		fetchErr      *ingestion.FetchError
		browserErr    *ingestion.BrowserError
		workerFmtErr  *ingestion.FormatError
		unknownRole   *tailoring.UnknownRoleError
		llmFmtErr     *llm.FormatError
		tailorErr     *tailoring.TailoringError
		renderErr     *rendering.RenderError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &invalidInput),
		errors.Is(err, pdftext.ErrEmptyDocument), errors.Is(err, rendering.ErrEmptyText):
		return http.StatusBadRequest
	case errors.As(err, &unknownRole):
		return http.StatusNotFound
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tailoring.ErrNoClient):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr), errors.As(err, &browserErr), errors.As(err, &workerFmtErr),
		errors.As(err, &llmFmtErr), errors.As(err, &tailorErr), errors.As(err, &renderErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
