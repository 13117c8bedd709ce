package ingestion

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-tailor/internal/fetch"
)

// Options selects and configures an Extractor.
type Options struct {
	Strategy  Strategy
	WorkerURL string
	Retry     fetch.RetryPolicy
	// HTTPTimeout bounds each plain HTTP request.
	HTTPTimeout time.Duration
	// Browsers supplies sessions for the browser strategy.
	Browsers *fetch.BrowserPool
	DebugDir string
	// RequestsPerSecond limits outbound requests per host. Zero disables the limit.
	RequestsPerSecond float64
	Verbose           bool
}

// New builds the Extractor named by opts.Strategy.
func New(opts Options) (Extractor, error) {
	httpOpts := fetch.DefaultOptions()
	if opts.HTTPTimeout > 0 {
		httpOpts.Timeout = opts.HTTPTimeout
	}
	limiter := fetch.NewHostLimiter(opts.RequestsPerSecond, 1)

	switch opts.Strategy {
	case StrategyBrowser:
		pool := opts.Browsers
		if pool == nil {
			pool = fetch.NewBrowserPool(fetch.DefaultBrowserOptions(), fetch.DefaultMaxSessions)
		}
		return NewBrowserExtractor(pool, BrowserOptions{
			DebugDir: opts.DebugDir,
			Limiter:  limiter,
			Verbose:  opts.Verbose,
		}), nil
	case StrategyPattern, "":
		return NewPatternExtractor(PatternOptions{
			HTTP:    httpOpts,
			Retry:   opts.Retry,
			Limiter: limiter,
			Verbose: opts.Verbose,
		}), nil
	case StrategyWorker:
		worker, err := NewWorkerExtractor(WorkerOptions{
			URL:     opts.WorkerURL,
			HTTP:    httpOpts,
			Retry:   opts.Retry,
			Verbose: opts.Verbose,
		})
		if err != nil {
			return nil, err
		}
		return worker, nil
	default:
		return nil, fmt.Errorf("unknown scraper strategy %q", opts.Strategy)
	}
}
