// Package server provides the HTTP REST API for resume tailoring.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Tailorer tailors resumes toward catalog roles and scraped postings.
type Tailorer interface {
	TailorForRoleID(ctx context.Context, resumeText, roleID string) (types.TechRole, string, error)
	ScrapeAndTailor(ctx context.Context, jobURL, resumeText string) (*types.ScrapeAndTailorResponse, error)
}

// PDFRenderer regenerates a PDF from resume text.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, title, text string) ([]byte, error)
}

// Config holds server configuration
type Config struct {
	Port int
	// AllowedOrigins lists the CORS origins; empty allows any origin.
	AllowedOrigins []string
	// JWT enables bearer-token auth on /api/ routes when non-nil.
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
	Verbose   bool
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	tailor      Tailorer
	renderer    PDFRenderer
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	origins     []string
	verbose     bool
}

// New creates a new server instance. renderer may be nil, which disables the PDF endpoint.
func New(cfg Config, tailor Tailorer, renderer PDFRenderer) *Server {
	s := &Server{
		tailor:   tailor,
		renderer: renderer,
		origins:  cfg.AllowedOrigins,
		verbose:  cfg.Verbose,
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/roles", s.handleListRoles)
	api.HandleFunc("POST /api/resume/tailor", s.handleTailor)
	api.HandleFunc("POST /api/resume/pdf", s.handleRenderPDF)
	api.HandleFunc("POST /api/linkedin/scrape-and-tailor", s.handleScrapeAndTailor)
	api.HandleFunc("/api/", s.handleNotFound)

	var apiHandler http.Handler = api
	if s.jwtService != nil {
		apiHandler = middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(apiHandler)
	}
	mux.Handle("/api/", apiHandler)

	s.handler = s.withRequestID(s.withLogging(s.withCORS(s.withRateLimit(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Scrape plus LLM call can take minutes
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// withCORS answers preflights and sets CORS headers for allowed origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if !s.originAllowed(origin) {
				log.Printf("[CORS] Rejected origin %s", origin)
				s.jsonResponse(w, http.StatusForbidden, map[string]any{
					"error":          "CORS Error",
					"message":        "Origin not allowed",
					"origin":         origin,
					"allowedOrigins": s.origins,
				})
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return len(s.origins) == 0 || slices.Contains(s.origins, origin) || slices.Contains(s.origins, "*")
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		log.Printf("[%s] %s %s origin=%q", r.Method, r.URL.Path, r.RemoteAddr, r.Header.Get("Origin"))
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s completed %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// withRequestID tags every response with an X-Request-ID, reusing the caller's when present.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, types.WorkerErrorResponse{Error: message})
}

// errorDetailsResponse writes an error JSON response carrying the underlying cause.
func (s *Server) errorDetailsResponse(w http.ResponseWriter, status int, message string, err error) {
	s.jsonResponse(w, status, types.WorkerErrorResponse{Error: message, Details: err.Error()})
}

// extractClientID identifies the caller: the token subject when authenticated, otherwise the remote IP.
func (s *Server) extractClientID(r *http.Request) string {
	if s.jwtService != nil {
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			if claims, err := s.jwtService.ValidateToken(strings.TrimSpace(token)); err == nil && claims.Subject != "" {
				return "sub:" + claims.Subject
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
