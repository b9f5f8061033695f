package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-relevance/internal/db"
	"github.com/jonathan/resume-relevance/internal/experience"
	"github.com/jonathan/resume-relevance/internal/features"
	"github.com/jonathan/resume-relevance/internal/keywords"
	"github.com/jonathan/resume-relevance/internal/observability"
	"github.com/jonathan/resume-relevance/internal/server/ratelimit"
	"github.com/jonathan/resume-relevance/internal/types"
)

// Store persists samples and their feature vectors. *db.DB implements it.
type Store interface {
	CreateSample(ctx context.Context, s *types.Sample, source string) (*types.Sample, error)
	GetSample(ctx context.Context, id uuid.UUID) (*types.Sample, error)
	ListSamples(ctx context.Context, opts db.ListSamplesOptions) ([]types.Sample, int, error)
	DeleteSample(ctx context.Context, id uuid.UUID) (bool, error)
	SaveFeatures(ctx context.Context, sampleID uuid.UUID, provider, model string, fs *types.FeatureSet) (*db.StoredFeatures, error)
	GetFeatures(ctx context.Context, sampleID uuid.UUID) (*db.StoredFeatures, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	store          Store
	assembler      *features.Assembler
	keywords       *keywords.Extractor
	experience     *experience.Extractor
	metrics        *observability.Metrics
	rateLimiter    *ratelimit.Limiter
	allowedOrigins []string
	provider       string
	model          string
	keywordLimit   int
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string // empty allows any origin

	Assembler  *features.Assembler
	Keywords   *keywords.Extractor
	Experience *experience.Extractor

	// Store backs the /samples routes; nil makes them answer 503.
	Store Store
	// Provider and Model are recorded next to persisted vectors.
	Provider string
	Model    string

	Metrics   *observability.Metrics
	RateLimit *ratelimit.Config // nil reads RATE_LIMIT_* from the environment
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Assembler == nil || cfg.Keywords == nil || cfg.Experience == nil {
		return nil, fmt.Errorf("server requires an assembler, keyword extractor and experience extractor")
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	s := &Server{
		store:          cfg.Store,
		assembler:      cfg.Assembler,
		keywords:       cfg.Keywords,
		experience:     cfg.Experience,
		metrics:        metrics,
		rateLimiter:    ratelimit.NewLimiter(rlConfig),
		allowedOrigins: cfg.AllowedOrigins,
		provider:       cfg.Provider,
		model:          cfg.Model,
		keywordLimit:   keywords.DefaultJobKeywords,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	// Pipeline endpoints
	mux.HandleFunc("POST /normalize", s.handleNormalize)
	mux.HandleFunc("POST /keywords", s.handleKeywords)
	mux.HandleFunc("POST /experience", s.handleExperience)
	mux.HandleFunc("POST /features", s.handleFeatures)

	// Sample store endpoints
	mux.HandleFunc("POST /samples", s.handleCreateSample)
	mux.HandleFunc("GET /samples", s.handleListSamples)
	mux.HandleFunc("GET /samples/{id}", s.handleGetSample)
	mux.HandleFunc("DELETE /samples/{id}", s.handleDeleteSample)
	mux.HandleFunc("POST /samples/{id}/features", s.handleComputeSampleFeatures)
	mux.HandleFunc("GET /samples/{id}/features", s.handleGetSampleFeatures)

	s.handler = s.withMetrics(s.withRateLimit(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // remote embedding calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()

	log.Println("Server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or "".
func (s *Server) allowOrigin(origin string) string {
	if len(s.allowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
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

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
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

// withMetrics records request counts and latencies per route pattern.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// The mux sets Pattern on the request it matched.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, r.Method, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
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
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFrom writes err with the status HTTPStatus picks for it.
func (s *Server) errorFrom(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusBadRequest {
		s.errorResponse(w, status, validationMessage(err))
		return
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[server] request failed: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
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
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
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
