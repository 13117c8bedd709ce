package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start the REST API serving role tailoring, LinkedIn scrape-and-tailor and PDF regeneration.",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	jwtCfg, err := cfg.JWT()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	pool := newBrowserPool(cfg)
	extractor, cleanup, err := newExtractor(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer cleanup()

	service := tailoring.NewService(client, extractor, cfg.Verbose)
	renderer := rendering.NewPDFRenderer(pool, cfg.Verbose)

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWT:            jwtCfg,
		Verbose:        cfg.Verbose,
	}, service, renderer)

	log.Printf("Scraper strategy: %s", cfg.Scraper.Strategy)
	return srv.Start(ctx)
}
