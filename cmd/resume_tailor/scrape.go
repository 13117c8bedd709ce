package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>...",
	Short: "Scrape LinkedIn job postings and print their details as JSON",
	Long:  "Scrape one or more LinkedIn job postings concurrently with the configured strategy. Exits non-zero if any scrape fails.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScrape,
}

var scrapeStrategy string

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeStrategy, "strategy", "s", "", "Extraction strategy: browser, pattern or worker (overrides config)")
	rootCmd.AddCommand(scrapeCmd)
}

// scrapeResult is one line of the scrape output.
type scrapeResult struct {
	URL     string            `json:"url"`
	Details *types.JobDetails `json:"jobDetails,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scrapeStrategy != "" {
		cfg.Scraper.Strategy = scrapeStrategy
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	extractor, cleanup, err := newExtractor(ctx, cfg, newBrowserPool(cfg))
	if err != nil {
		return err
	}
	defer cleanup()

	results := scrapeAll(ctx, extractor, args, cfg.Scraper.MaxBrowsers)
	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		for _, r := range results {
			printer.PrintJobDetails(r.Details)
		}
	}
	return writeScrapeResults(cmd.OutOrStdout(), results)
}

// scrapeAll scrapes every URL with at most limit in flight. Results keep the input order.
func scrapeAll(ctx context.Context, extractor ingestion.Extractor, urls []string, limit int) []scrapeResult {
	results := make([]scrapeResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, u := range urls {
		g.Go(func() error {
			results[i] = scrapeOne(gctx, extractor, u)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func scrapeOne(ctx context.Context, extractor ingestion.Extractor, jobURL string) scrapeResult {
	details, err := extractor.Extract(ctx, jobURL)
	if err != nil {
		return scrapeResult{URL: jobURL, Error: err.Error()}
	}
	encoded, err := json.Marshal(details)
	if err != nil {
		return scrapeResult{URL: jobURL, Error: err.Error()}
	}
	if err := schemas.ValidateJobDetails(encoded); err != nil {
		return scrapeResult{URL: jobURL, Error: err.Error()}
	}
	return scrapeResult{URL: jobURL, Details: details}
}

// writeScrapeResults prints the results as an indented JSON array and reports how many failed.
func writeScrapeResults(w io.Writer, results []scrapeResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scrapes failed", failed, len(results))
	}
	return nil
}
