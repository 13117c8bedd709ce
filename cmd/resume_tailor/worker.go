package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the standalone scraping worker",
	Long:  "Start the worker endpoint that scrapes a LinkedIn job posting over plain HTTP and returns its JobDetails as JSON.",
	RunE:  runWorker,
}

var workerPort int

func init() {
	workerCmd.Flags().IntVarP(&workerPort, "port", "p", 0, "Port to listen on (overrides config and WORKER_PORT)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if workerPort > 0 {
		cfg.Worker.Port = workerPort
	}

	httpOpts := fetch.DefaultOptions()
	httpOpts.Timeout = cfg.Scraper.Timeout.Std()
	scraper := ingestion.NewPatternExtractor(ingestion.PatternOptions{
		HTTP:    httpOpts,
		Retry:   retryPolicy(cfg),
		Limiter: fetch.NewHostLimiter(cfg.Scraper.RequestsPerSecond, 1),
		Verbose: cfg.Verbose,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := worker.NewServer(cfg.Worker.Port, worker.Options{
		AllowedOrigins: cfg.Worker.AllowedOrigins,
		Scraper:        scraper,
		Verbose:        cfg.Verbose,
	})
	return srv.Start(ctx)
}
