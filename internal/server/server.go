// Package server provides the HTTP REST API for the creator agent.
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
	"syscall"
	"time"

	"github.com/jonathan/creator-agent/internal/config"
	"github.com/jonathan/creator-agent/internal/db"
	"github.com/jonathan/creator-agent/internal/orchestration"
	"github.com/jonathan/creator-agent/internal/server/middleware"
	"github.com/jonathan/creator-agent/internal/server/ratelimit"
)

// ChainExecutor runs a tier chain. Implemented by orchestration.TierChainService.
type ChainExecutor interface {
	Execute(ctx context.Context, req *orchestration.GenerationRequest, tier orchestration.Tier) *orchestration.TierChainResponse
}

// Generator runs a single model call with fallback. Implemented by
// orchestration.ModelService.
type Generator interface {
	Generate(ctx context.Context, req orchestration.ModelRequest) *orchestration.ModelResponse
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	database    *db.DB
	registry    *orchestration.Registry
	chain       ChainExecutor
	model       Generator
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	defaultTier orchestration.Tier
}

// Config holds server configuration
type Config struct {
	Addr            string
	DatabaseURL     string
	AllowedOrigin   string
	DefaultTier     orchestration.Tier
	ShutdownTimeout time.Duration
}

// Deps carries the server's collaborators. Nil fields disable the matching
// surface: a nil DB turns the run endpoints into 503s, nil auth services run
// the API open.
type Deps struct {
	Registry    *orchestration.Registry
	Chain       ChainExecutor
	Model       Generator
	DB          *db.DB
	JWT         *JWTService
	Tokens      *config.TokenConfig
	RateLimiter *ratelimit.Limiter
}

// New creates a production server instance wired from environment-backed
// configuration. Audit storage is attached only when a database URL is
// configured; auth only when JWT_SECRET and ADMIN_TOKEN_HASH are set.
func New(cfg Config, registry *orchestration.Registry) (*Server, error) {
	deps := Deps{
		Registry:    registry,
		Chain:       orchestration.NewTierChainService(registry),
		Model:       orchestration.NewModelService(registry, orchestration.DefaultSystemPrompt),
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.DB = database
	}

	jwtConfig, jwtErr := config.NewJWTConfig()
	tokenConfig, tokenErr := config.NewTokenConfig()
	if jwtErr == nil && tokenErr == nil {
		deps.JWT = NewJWTService(jwtConfig)
		deps.Tokens = tokenConfig
	} else {
		log.Printf("[server] auth disabled: jwt=%v tokens=%v", jwtErr, tokenErr)
	}

	return newServer(cfg, deps), nil
}

// newServer wires routes and middleware around the given dependencies.
func newServer(cfg Config, deps Deps) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if !cfg.DefaultTier.Valid() {
		cfg.DefaultTier = orchestration.TierFlow
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = ratelimit.NewLimiter(nil)
	}

	s := &Server{
		database:    deps.DB,
		registry:    deps.Registry,
		chain:       deps.Chain,
		model:       deps.Model,
		rateLimiter: deps.RateLimiter,
		jwtService:  deps.JWT,
		defaultTier: cfg.DefaultTier,
	}

	protect := func(h http.HandlerFunc) http.Handler { return h }
	if deps.JWT != nil && deps.Tokens != nil {
		s.authHandler = NewAuthHandler(deps.Tokens, deps.JWT)
		authMiddleware := middleware.Auth(deps.JWT.AsTokenValidator())
		protect = func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.authHandler != nil {
		mux.HandleFunc("POST /auth/token", s.authHandler.IssueToken)
	}

	mux.Handle("POST /chat", protect(s.handleChat))
	mux.Handle("POST /generate", protect(s.handleGenerate))
	mux.Handle("GET /preflight", protect(s.handlePreflight))

	mux.Handle("GET /runs", protect(s.handleListRuns))
	mux.Handle("GET /runs/{id}", protect(s.handleGetRun))
	mux.Handle("GET /runs/{id}/steps", protect(s.handleListRunSteps))
	mux.Handle("DELETE /runs/{id}", protect(s.handleDeleteRun))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux, cfg.AllowedOrigin))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // craft chains run three model calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the full middleware-wrapped handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.database != nil {
		s.database.Close()
	}

	log.Println("[server] stopped")
	return nil
}

// withCORS adds CORS headers. An empty origin allows any.
func (s *Server) withCORS(next http.Handler, origin string) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
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

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"storage": s.database != nil,
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
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the client for rate limiting. IP from
// RemoteAddr; X-Forwarded-For is ignored until a trusted proxy list exists.
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

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] limit=%d remaining=%d reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
