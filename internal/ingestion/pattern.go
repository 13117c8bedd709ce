package ingestion

import (
	"context"
	"errors"
	"log"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/types"
)

// PatternOptions configures the raw-fetch extractor.
type PatternOptions struct {
	// HTTP overrides request options; browser-like headers are always added.
	HTTP    *fetch.Options
	Retry   fetch.RetryPolicy
	Limiter *fetch.HostLimiter
	Verbose bool
}

// PatternExtractor fetches the page over plain HTTP and matches fields with regular expressions.
type PatternExtractor struct {
	opts PatternOptions
}

// NewPatternExtractor creates a raw-fetch extractor.
func NewPatternExtractor(opts PatternOptions) *PatternExtractor {
	if opts.Retry.Attempts < 1 {
		opts.Retry = fetch.DefaultRetryPolicy()
	}
	return &PatternExtractor{opts: opts}
}

// Extract implements Extractor.
func (e *PatternExtractor) Extract(ctx context.Context, jobURL string) (*types.JobDetails, error) {
	details, err := e.Scrape(ctx, jobURL)
	if err != nil {
		return nil, err
	}
	return check(NormalizeJobURL(jobURL), StrategyPattern, details)
}

// Scrape fetches and parses jobURL without rejecting a missing description.
// Unresolved fields carry their sentinel values.
func (e *PatternExtractor) Scrape(ctx context.Context, jobURL string) (*types.JobDetails, error) {
	if err := ValidateJobURL(jobURL); err != nil {
		return nil, err
	}
	jobURL = NormalizeJobURL(jobURL)
	log.Printf("[SCRAPE] pattern: fetching %s", jobURL)

	if err := e.opts.Limiter.WaitURL(ctx, jobURL); err != nil {
		return nil, &FetchError{URL: jobURL, Cause: err}
	}

	result, err := fetch.URLWithRetry(ctx, jobURL, e.requestOptions(), e.opts.Retry)
	if err != nil {
		return nil, newFetchError(jobURL, err)
	}
	if e.opts.Verbose {
		log.Printf("[SCRAPE] pattern: fetched %d bytes", len(result.Body))
	}

	return Assemble(ParsePatternFields(result.Body)), nil
}

func (e *PatternExtractor) requestOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	if e.opts.HTTP != nil {
		copied := *e.opts.HTTP
		opts = &copied
	}
	headers := fetch.BrowserHeaders()
	for k, v := range opts.Headers {
		headers[k] = v
	}
	opts.Headers = headers
	return opts
}

// newFetchError converts a fetch failure into a FetchError carrying the attempt count and last status.
func newFetchError(jobURL string, err error) *FetchError {
	fe := &FetchError{URL: jobURL, Attempts: 1, Cause: err}
	var exhausted *fetch.ExhaustedError
	if errors.As(err, &exhausted) {
		fe.Attempts = exhausted.Attempts
	}
	var httpErr *fetch.Error
	if errors.As(err, &httpErr) {
		fe.StatusCode = httpErr.StatusCode
	}
	return fe
}
