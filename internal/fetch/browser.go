// Package fetch - browser.go provides scoped headless browser sessions.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
	"golang.org/x/sync/semaphore"
)

// Browser defaults.
const (
	DefaultNavigationTimeout = 60 * time.Second
	DefaultMaxSessions       = 2
	DefaultViewportWidth     = 1920
	DefaultViewportHeight    = 1080
)

// ErrBrowserLaunch is returned by Session when Chrome could not be started.
var ErrBrowserLaunch = errors.New("browser launch failed")

// BrowserOptions configures how Chrome is launched for a session.
type BrowserOptions struct {
	// ExecPath is the Chrome binary; empty means look it up on the system.
	ExecPath       string
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	// Timeout bounds a whole session, from launch to close.
	Timeout time.Duration
	Verbose bool
}

// DefaultBrowserOptions returns a desktop-sized headless configuration.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		UserAgent:      DefaultUserAgent,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		Timeout:        DefaultNavigationTimeout,
	}
}

// ResolveChromePath returns configured when set, otherwise a Chrome binary found on the system.
// It returns "" when none is found, letting chromedp apply its own lookup.
func ResolveChromePath(configured string) string {
	if configured != "" {
		return configured
	}
	if path, ok := launcher.LookPath(); ok {
		return path
	}
	return ""
}

// ChromeAvailable reports whether a Chrome binary can be located.
func ChromeAvailable() bool {
	_, ok := launcher.LookPath()
	return ok
}

// BrowserPool hands out browser sessions, at most maxSessions at a time.
// Each session launches its own Chrome process and closes it when the session ends.
type BrowserPool struct {
	opts BrowserOptions
	sem  *semaphore.Weighted
}

// NewBrowserPool creates a pool bounded to maxSessions concurrent browsers.
func NewBrowserPool(opts BrowserOptions, maxSessions int) *BrowserPool {
	if maxSessions < 1 {
		maxSessions = DefaultMaxSessions
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultNavigationTimeout
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	opts.ExecPath = ResolveChromePath(opts.ExecPath)
	return &BrowserPool{
		opts: opts,
		sem:  semaphore.NewWeighted(int64(maxSessions)),
	}
}

// Options returns the resolved launch options.
func (p *BrowserPool) Options() BrowserOptions {
	return p.opts
}

// allocatorOptions builds the exec allocator flags for a session.
func (p *BrowserPool) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("no-first-run", true),
		chromedp.UserAgent(p.opts.UserAgent),
		chromedp.WindowSize(p.opts.ViewportWidth, p.opts.ViewportHeight),
	)
	if p.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.opts.ExecPath))
	}
	return opts
}

// Session launches a browser, runs fn with a tab context, and always closes the browser.
// The browser is released on every exit path: fn errors, timeouts and panics included.
func (p *BrowserPool) Session(ctx context.Context, fn func(tabCtx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for browser slot: %w", err)
	}
	defer p.sem.Release(1)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, p.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Launch eagerly so a missing binary surfaces as a launch failure.
	if err := chromedp.Run(tabCtx); err != nil {
		// The tab never attached to a browser: the allocator must go first or
		// cancelTab blocks waiting for a browser that does not exist.
		cancelAlloc()
		cancelTab()
		return fmt.Errorf("%w: %w", ErrBrowserLaunch, err)
	}
	defer func() {
		if p.opts.Verbose {
			log.Printf("[BROWSER] Closing browser")
		}
		if err := chromedp.Cancel(tabCtx); err != nil {
			log.Printf("[BROWSER] Error closing browser: %v", err)
		}
		cancelTab()
	}()

	sessionCtx, cancel := context.WithTimeout(tabCtx, p.opts.Timeout)
	defer cancel()

	if p.opts.Verbose {
		log.Printf("[BROWSER] Session started (viewport %dx%d)", p.opts.ViewportWidth, p.opts.ViewportHeight)
	}
	return fn(sessionCtx)
}
