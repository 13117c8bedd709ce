package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Browser wait defaults.
const (
	DefaultReadyTimeout    = 10 * time.Second
	DefaultFallbackTimeout = 15 * time.Second
)

// BrowserOptions configures the rendered-DOM extractor.
type BrowserOptions struct {
	// ReadyTimeout bounds the wait for a known content selector.
	ReadyTimeout time.Duration
	// FallbackTimeout bounds the wait for a job-related phrase once the selectors timed out.
	FallbackTimeout time.Duration
	// DebugDir receives a full-page screenshot when no description is found. Empty disables it.
	DebugDir string
	Limiter  *fetch.HostLimiter
	Verbose  bool
}

// BrowserExtractor renders the page in headless Chrome and matches fields with CSS selectors.
type BrowserExtractor struct {
	pool *fetch.BrowserPool
	opts BrowserOptions
}

// NewBrowserExtractor creates a rendered-DOM extractor drawing sessions from pool.
func NewBrowserExtractor(pool *fetch.BrowserPool, opts BrowserOptions) *BrowserExtractor {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = DefaultReadyTimeout
	}
	if opts.FallbackTimeout <= 0 {
		opts.FallbackTimeout = DefaultFallbackTimeout
	}
	return &BrowserExtractor{pool: pool, opts: opts}
}

// Extract implements Extractor. The browser is closed before Extract returns on every path.
func (e *BrowserExtractor) Extract(ctx context.Context, jobURL string) (*types.JobDetails, error) {
	if err := ValidateJobURL(jobURL); err != nil {
		return nil, err
	}
	jobURL = NormalizeJobURL(jobURL)
	log.Printf("[SCRAPE] browser: loading %s", jobURL)

	if err := e.opts.Limiter.WaitURL(ctx, jobURL); err != nil {
		return nil, &FetchError{URL: jobURL, Cause: err}
	}

	var raw RawFields
	var screenshot []byte
	err := e.pool.Session(ctx, func(tabCtx context.Context) error {
		if err := e.load(tabCtx, jobURL); err != nil {
			return err
		}

		var pageHTML string
		if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery)); err != nil {
			return fmt.Errorf("failed to read page HTML: %w", err)
		}
		if e.opts.Verbose {
			log.Printf("[SCRAPE] browser: rendered %d bytes", len(pageHTML))
		}

		parsed, err := ParseDOMFields(pageHTML)
		if err != nil {
			return err
		}
		raw = parsed

		if raw[FieldDescription] == "" && e.opts.DebugDir != "" {
			if err := chromedp.Run(tabCtx, chromedp.FullScreenshot(&screenshot, 90)); err != nil {
				log.Printf("[SCRAPE] browser: debug screenshot failed: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fetch.ErrBrowserLaunch) {
			return nil, &BrowserError{URL: jobURL, Cause: err}
		}
		return nil, &FetchError{URL: jobURL, Attempts: 1, Cause: err}
	}

	if len(screenshot) > 0 {
		e.saveScreenshot(screenshot)
	}
	return finish(jobURL, StrategyBrowser, raw)
}

// load navigates to the page and waits until job content is present.
func (e *BrowserExtractor) load(tabCtx context.Context, jobURL string) error {
	poolOpts := e.pool.Options()
	headers := network.Headers{}
	for k, v := range fetch.BrowserHeaders() {
		headers[k] = v
	}

	if err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.EmulateViewport(int64(poolOpts.ViewportWidth), int64(poolOpts.ViewportHeight)),
		chromedp.Navigate(jobURL),
	); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	readyCtx, cancel := context.WithTimeout(tabCtx, e.opts.ReadyTimeout)
	err := chromedp.Run(readyCtx, chromedp.WaitReady(strings.Join(ReadySelectors, ", "), chromedp.ByQuery))
	cancel()
	if err == nil {
		return nil
	}
	if tabCtx.Err() != nil {
		return fmt.Errorf("waiting for job content: %w", tabCtx.Err())
	}

	log.Printf("[SCRAPE] browser: content selectors not found within %v, waiting for page text", e.opts.ReadyTimeout)
	var found bool
	if err := chromedp.Run(tabCtx,
		chromedp.Poll(readyPhraseExpression(), &found, chromedp.WithPollingTimeout(e.opts.FallbackTimeout)),
	); err != nil {
		return fmt.Errorf("job content did not appear: %w", err)
	}
	return nil
}

// readyPhraseExpression is a JS predicate that is true once the body mentions any ReadyPhrases entry.
func readyPhraseExpression() string {
	quoted := make([]string, 0, len(ReadyPhrases))
	for _, p := range ReadyPhrases {
		quoted = append(quoted, strconv.Quote(p))
	}
	return "!!document.body && [" + strings.Join(quoted, ", ") + "].some(p => document.body.innerText.includes(p))"
}

func (e *BrowserExtractor) saveScreenshot(png []byte) {
	if err := os.MkdirAll(e.opts.DebugDir, 0755); err != nil {
		log.Printf("[SCRAPE] browser: failed to create debug dir: %v", err)
		return
	}
	path := filepath.Join(e.opts.DebugDir, "linkedin-debug-"+uuid.NewString()+".png")
	if err := os.WriteFile(path, png, 0644); err != nil {
		log.Printf("[SCRAPE] browser: failed to write debug screenshot: %v", err)
		return
	}
	log.Printf("[SCRAPE] browser: debug screenshot saved to %s", path)
}
