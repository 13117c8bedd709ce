// Package worker serves the standalone scraping endpoint that the worker strategy calls.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Response messages.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgScrapeFailed     = "Failed to scrape LinkedIn job"
)

// preflightMaxAge is how long browsers may cache a preflight answer.
const preflightMaxAge = 24 * time.Hour

// Scraper returns one posting record; a missing description comes back as the sentinel, not an error.
type Scraper interface {
	Scrape(ctx context.Context, jobURL string) (*types.JobDetails, error)
}

// Options configures the worker endpoint.
type Options struct {
	// AllowedOrigins lists CORS origins; empty allows any origin.
	AllowedOrigins []string
	Scraper        Scraper
	Verbose        bool
}

// NewRouter builds the gin engine serving POST /.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Verbose))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	h := &handler{scraper: opts.Scraper, verbose: opts.Verbose}
	r.Any("/", h.handle)
	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "Authorization"}
	config.MaxAge = preflightMaxAge
	return config
}

func requestLogger(verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if verbose || c.Writer.Status() >= http.StatusBadRequest {
			log.Printf("[WORKER] %s %s %d in %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
		}
	}
}

type handler struct {
	scraper Scraper
	verbose bool
}

func (h *handler) handle(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		// Preflights from allowed origins are answered by the CORS middleware.
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", fmt.Sprintf("%d", int(preflightMaxAge.Seconds())))
		c.Status(http.StatusNoContent)
	case http.MethodPost:
		h.scrape(c)
	default:
		c.String(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	}
}

func (h *handler) scrape(c *gin.Context) {
	var req types.WorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil || ingestion.ValidateJobURL(req.URL) != nil {
		c.JSON(http.StatusBadRequest, types.WorkerErrorResponse{Error: ingestion.InvalidJobURLMessage})
		return
	}

	log.Printf("[WORKER] Scraping %s", req.URL)
	details, err := h.scraper.Scrape(c.Request.Context(), req.URL)
	if err != nil {
		var invalid *ingestion.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, types.WorkerErrorResponse{Error: ingestion.InvalidJobURLMessage})
			return
		}
		log.Printf("[WORKER] Scrape failed for %s: %v", req.URL, err)
		c.JSON(http.StatusInternalServerError, types.WorkerErrorResponse{Error: MsgScrapeFailed, Details: err.Error()})
		return
	}

	if h.verbose {
		log.Printf("[WORKER] %s: title=%q description=%d chars", req.URL, details.Title, len(details.Description))
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, details)
}

// Server runs the worker endpoint over HTTP.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a worker server listening on port.
func NewServer(port int, opts Options) *Server {
	return &Server{httpServer: &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      NewRouter(opts),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[WORKER] Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("worker server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("worker shutdown failed: %w", err)
	}
	log.Println("[WORKER] Stopped")
	return nil
}
