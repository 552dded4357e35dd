package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"crumb/internal/auth"
	"crumb/internal/bake"
	"crumb/internal/config"
	"crumb/internal/logging"
	"crumb/internal/recipes"
	"crumb/internal/services/llm"
	"crumb/internal/storage"
)

// Server is the HTTP API server.
type Server struct {
	bind   string
	logger *slog.Logger

	db      *storage.DB
	users   *auth.Store
	tokens  *auth.TokenManager
	recipes *recipes.Store
	bakes   *bake.Session
	llm     *llm.Client

	listener net.Listener
	server   *http.Server
}

// New wires the API server over the shared database.
func New(cfg *config.Config, db *storage.DB, logger *slog.Logger) (*Server, error) {
	bind := strings.TrimSpace(cfg.Paths.Bind)
	if bind == "" {
		return nil, errors.New("bind address required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:    bind,
		logger:  logger,
		db:      db,
		users:   auth.NewStore(db, cfg.Auth.BcryptCost),
		tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
		recipes: recipes.NewStore(db),
		bakes:   bake.NewSession(db, logger),
		llm:     llm.NewClient(cfg.LLM),
	}

	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *Server) routes() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("POST /auth/register", s.handleRegister)
	public.HandleFunc("POST /auth/login", s.handleLogin)
	public.HandleFunc("GET /healthz", s.handleHealth)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/recipes", s.handleListRecipes)
	api.HandleFunc("POST /api/recipes", s.handleCreateRecipe)
	api.HandleFunc("GET /api/recipes/{recipeId}", s.handleGetRecipe)
	api.HandleFunc("DELETE /api/recipes/{recipeId}", s.handleDeleteRecipe)
	api.HandleFunc("GET /api/ingredients", s.handleListIngredients)
	api.HandleFunc("GET /api/steps", s.handleListSteps)

	api.HandleFunc("POST /api/bakes/start", s.handleStartBake)
	api.HandleFunc("GET /api/bakes/active", s.handleActiveBakes)
	api.HandleFunc("GET /api/bakes/history", s.handleBakeHistory)
	api.HandleFunc("GET /api/bakes/{bakeLogId}", s.handleBakeDetail)
	api.HandleFunc("POST /api/bakes/{bakeLogId}/steps/complete", s.handleCompleteStep)
	api.HandleFunc("PUT /api/bakes/{bakeLogId}/status", s.handleUpdateStatus)

	api.HandleFunc("GET /api/genai/explain", s.handleExplain)
	api.HandleFunc("POST /api/genai/generate", s.handleGenerate)

	public.Handle("/api/", auth.Middleware(s.tokens)(api))
	return s.withRequestLog(public)
}

// Start binds the listener and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, draining in-flight requests briefly.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address, empty until Start succeeds.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
