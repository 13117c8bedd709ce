package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
)

// loadConfig reads --config and the environment; --verbose overrides the file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func llmConfig(cfg *config.Config) (*llm.Config, error) {
	provider, err := llm.ParseProvider(cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}
	out := llm.DefaultConfig()
	if provider == llm.ProviderGemini {
		out = llm.DefaultGeminiConfig()
	}
	out.Provider = provider
	if provider == llm.ProviderOpenAI {
		out.BaseURL = ""
	}
	if cfg.LLM.Model != "" {
		out.Model = cfg.LLM.Model
	}
	if cfg.LLM.BaseURL != "" {
		out.BaseURL = cfg.LLM.BaseURL
	}
	if cfg.LLM.Temperature > 0 {
		out.Temperature = cfg.LLM.Temperature
	}
	if cfg.LLM.MaxTokens > 0 {
		out.MaxTokens = cfg.LLM.MaxTokens
	}
	return out, nil
}

// newLLMClient returns nil without error when no API key is configured.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.LLM.APIKey == "" {
		log.Printf("[TAILOR] No LLM API key configured; tailoring is disabled")
		return nil, nil
	}
	llmCfg, err := llmConfig(cfg)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func newBrowserPool(cfg *config.Config) *fetch.BrowserPool {
	opts := fetch.DefaultBrowserOptions()
	opts.ExecPath = cfg.Scraper.ChromePath
	opts.Timeout = cfg.Scraper.NavigationTimeout.Std()
	opts.Verbose = cfg.Verbose
	return fetch.NewBrowserPool(opts, cfg.Scraper.MaxBrowsers)
}

func retryPolicy(cfg *config.Config) fetch.RetryPolicy {
	return fetch.RetryPolicy{
		Attempts: cfg.Scraper.RetryCount,
		Delay:    cfg.Scraper.RetryDelay.Std(),
	}
}

func extractorOptions(cfg *config.Config, pool *fetch.BrowserPool) (ingestion.Options, error) {
	strategy, err := ingestion.ParseStrategy(cfg.Scraper.Strategy)
	if err != nil {
		return ingestion.Options{}, err
	}
	return ingestion.Options{
		Strategy:          strategy,
		WorkerURL:         cfg.Scraper.WorkerURL,
		Retry:             retryPolicy(cfg),
		HTTPTimeout:       cfg.Scraper.Timeout.Std(),
		Browsers:          pool,
		DebugDir:          cfg.Scraper.DebugDir,
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
		Verbose:           cfg.Verbose,
	}, nil
}

// newExtractor builds the configured strategy behind the job details cache.
// The returned cleanup closes the database pool when one was opened.
func newExtractor(ctx context.Context, cfg *config.Config, pool *fetch.BrowserPool) (ingestion.Extractor, func(), error) {
	opts, err := extractorOptions(cfg, pool)
	if err != nil {
		return nil, nil, err
	}
	inner, err := ingestion.New(opts)
	if err != nil {
		return nil, nil, err
	}

	store, cleanup, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	purgeExpired(ctx, store, cfg.CacheTTL.Std())
	return ingestion.NewCachedExtractor(inner, store, cfg.CacheTTL.Std(), cfg.Verbose), cleanup, nil
}

func newStore(cfg *config.Config) (ingestion.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return ingestion.NewMemoryStore(), func() {}, nil
	}
	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open job details cache: %w", err)
	}
	log.Printf("[SCRAPE] Caching job details in PostgreSQL for %v", cfg.CacheTTL.Std())
	return database, database.Close, nil
}

// purgeExpired drops cache rows older than the TTL from a PostgreSQL store.
func purgeExpired(ctx context.Context, store ingestion.Store, ttl time.Duration) {
	database, ok := store.(*db.DB)
	if !ok || ttl <= 0 {
		return
	}
	n, err := database.PurgeJobDetailsBefore(ctx, time.Now().Add(-ttl))
	if err != nil {
		log.Printf("[SCRAPE] Failed to purge expired cache entries: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[SCRAPE] Purged %d expired cache entries", n)
	}
}
