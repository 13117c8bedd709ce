package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// WorkerOptions configures the worker-proxy extractor.
type WorkerOptions struct {
	// URL is the worker endpoint that accepts {"url": ...}.
	URL     string
	HTTP    *fetch.Options
	Retry   fetch.RetryPolicy
	Verbose bool
}

// WorkerExtractor delegates scraping to a remote worker endpoint.
type WorkerExtractor struct {
	opts WorkerOptions
}

// NewWorkerExtractor creates a worker-proxy extractor.
func NewWorkerExtractor(opts WorkerOptions) (*WorkerExtractor, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("worker URL is required for the worker strategy")
	}
	if opts.Retry.Attempts < 1 {
		opts.Retry = fetch.DefaultRetryPolicy()
	}
	return &WorkerExtractor{opts: opts}, nil
}

// Extract implements Extractor.
func (e *WorkerExtractor) Extract(ctx context.Context, jobURL string) (*types.JobDetails, error) {
	if err := ValidateJobURL(jobURL); err != nil {
		return nil, err
	}
	jobURL = NormalizeJobURL(jobURL)
	log.Printf("[SCRAPE] worker: requesting %s via %s", jobURL, e.opts.URL)

	body, err := json.Marshal(types.WorkerRequest{URL: jobURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode worker request: %w", err)
	}

	opts := fetch.DefaultOptions()
	if e.opts.HTTP != nil {
		copied := *e.opts.HTTP
		opts = &copied
	}
	opts.Method = "POST"
	opts.Body = body
	opts.Headers = map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Cache-Control": "no-cache",
	}

	result, err := fetch.URLWithRetry(ctx, e.opts.URL, opts, e.opts.Retry)
	if err != nil {
		return nil, newFetchError(jobURL, err)
	}
	if e.opts.Verbose {
		log.Printf("[SCRAPE] worker: response %d bytes", len(result.Body))
	}

	if err := schemas.ValidateJobDetails([]byte(result.Body)); err != nil {
		return nil, &FormatError{URL: jobURL, Message: "invalid job details received", Cause: err}
	}
	var received types.JobDetails
	if err := json.Unmarshal([]byte(result.Body), &received); err != nil {
		return nil, &FormatError{URL: jobURL, Message: "invalid JSON", Cause: err}
	}

	// Derived fields are recomputed so they always follow this side's vocabulary and rules.
	return finish(jobURL, StrategyWorker, RawFields{
		FieldTitle:          unlessSentinel(received.Title, types.UnknownTitle),
		FieldCompany:        unlessSentinel(received.Company, types.UnknownCompany),
		FieldLocation:       unlessSentinel(received.Location, types.UnknownLocation),
		FieldEmploymentType: received.EmploymentTypeValue(),
		FieldPostedDate:     received.PostedDateValue(),
		FieldDescription:    unlessSentinel(received.Description, types.NoDescriptionMessage),
	})
}

func unlessSentinel(value, sentinel string) string {
	if value == sentinel {
		return ""
	}
	return value
}
