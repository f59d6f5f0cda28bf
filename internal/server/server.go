// Package server is the composition root: it opens the store, builds the
// services and handlers and maps them onto routes.
//
// DEPENDENCY INJECTION FLOW:
//
//	Config → OpenStore → repository.Store
//	       → auth (tokens, revoker, resolver)
//	       → services → handlers → chi routes
//
// Nothing below this package constructs its own dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/whisper/internal/auth"
	"github.com/sakif/whisper/internal/handler"
	"github.com/sakif/whisper/internal/middleware"
	"github.com/sakif/whisper/internal/repository"
	mongoRepo "github.com/sakif/whisper/internal/repository/mongo"
	sqliteRepo "github.com/sakif/whisper/internal/repository/sqlite"
	"github.com/sakif/whisper/internal/service"
)

// Store drivers accepted by Config.StoreDriver.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds server configuration. cmd/server fills it from flags and
// environment variables.
type Config struct {
	Port int

	StoreDriver string // DriverSQLite (default) or DriverMongo
	DBPath      string // sqlite file, or ":memory:"
	MongoURI    string
	MongoDB     string

	// Empty RedisAddr keeps revoked sessions in process memory.
	RedisAddr     string
	RedisPassword string

	JWTSecret     string
	SessionTTL    time.Duration
	SecureCookies bool

	CORSOrigins []string
	StaticDir   string // frontend files; empty disables static serving

	// GitHub login is registered only when GitHubClientID is set.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the store and every long-lived connection; Close releases
// them.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	store   repository.Store
	closers []io.Closer
}

// OpenStore opens the persistence backend named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case "", DriverSQLite:
		if cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db, nil

	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("mongo store needs a connection URI")
		}
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st, err := mongoRepo.Open(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// New opens the configured store and builds the server on it.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := OpenStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	s, err := NewWithStore(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStore builds the server on an already open store. The server takes
// ownership of store and closes it in Close.
func NewWithStore(cfg Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = auth.DefaultSessionTTL
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		s.closeExtras()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// revoker picks the revocation list: Redis when configured so logouts
// survive restarts and are shared between instances, memory otherwise.
func (s *Server) revoker() (auth.Revoker, error) {
	if s.config.RedisAddr == "" {
		s.logger.Info("session revocation kept in memory")
		return auth.NewMemoryRevoker(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := auth.NewRedisClient(ctx, s.config.RedisAddr, s.config.RedisPassword)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, rdb)
	s.logger.Info("session revocation kept in redis", slog.String("addr", s.config.RedisAddr))
	return auth.NewRedisRevoker(rdb), nil
}

// setupRoutes configures middleware and routes.
//
// ROUTE GROUPS:
//   - public:   /health, /register, /login, /api/encouragements/random, GitHub OAuth
//   - optional: identity resolved if present (/logout, /api/me, posting encouragements)
//   - required: everything that reads or writes the caller's own records
//
// Middleware order: request id first so every log line carries it, then the
// real client IP, panic recovery, access log, headers and CORS.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	revoked, err := s.revoker()
	if err != nil {
		return fmt.Errorf("connecting revocation store: %w", err)
	}
	resolver := auth.NewResolver(tokens, revoked, s.store, s.logger)

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	}

	authService := service.NewAuthService(s.store, resolver, auth.NewPasswordService(), s.logger)
	journalService := service.NewJournalService(s.logger)
	taskService := service.NewTaskService(s.logger)
	encouragementService := service.NewEncouragementService(s.store, s.logger)
	questionService := service.NewQuestionService(s.logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := encouragementService.SeedDefaults(ctx); err != nil {
		// the pool can still be filled by users
		s.logger.Warn("seeding encouragements failed", slog.String("error", err.Error()))
	}

	authHandler := handler.NewAuthHandler(authService, github, tokens.TTL(), s.config.SecureCookies, s.logger)
	journalHandler := handler.NewJournalHandler(journalService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	encouragementHandler := handler.NewEncouragementHandler(encouragementService, s.logger)
	questionHandler := handler.NewQuestionHandler(questionService, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.SecurityHeaders)
	if len(s.config.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// === Public ===
	s.router.Get("/health", healthHandler.HandleHealth)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/api/encouragements/random", encouragementHandler.HandleRandom)

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	// === Identity if present ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(resolver))
		r.Use(middleware.Scope(s.store))

		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/api/me", authHandler.HandleMe)
		r.Post("/api/encouragements", encouragementHandler.HandlePost)
	})

	// === Identity required ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(resolver))
		r.Use(middleware.Scope(s.store))

		r.Post("/submit-mood", journalHandler.HandleSubmitMood)
		r.Post("/submit-journal", journalHandler.HandleSubmitJournal)
		r.Post("/submit-event", taskHandler.HandleSubmitEvent)

		r.Route("/api", func(r chi.Router) {
			r.Get("/moods", journalHandler.HandleMoods)
			r.Post("/moods", journalHandler.HandleSubmitMood)
			r.Get("/moods/trend", journalHandler.HandleTrend)
			r.Get("/notes", journalHandler.HandleNotes)

			r.Get("/tasks", taskHandler.HandleList)
			r.Post("/tasks", taskHandler.HandleSave)
			r.Delete("/tasks/{id}", taskHandler.HandleDelete)
			r.Get("/calendar", taskHandler.HandleCalendar)

			r.Get("/saved-encouragements", encouragementHandler.HandleSaved)
			r.Post("/saved-encouragements", encouragementHandler.HandleSave)
			r.Post("/saved-encouragements/like", encouragementHandler.HandleLike)
			r.Delete("/saved-encouragements/{id}", encouragementHandler.HandleDeleteSaved)

			r.Get("/daily-question", questionHandler.HandleDaily)
			r.Post("/submit-question-answer", questionHandler.HandleAnswer)
			r.Get("/my-question-answers", questionHandler.HandleHistory)
		})
	})

	// === Frontend ===
	// Registered routes win over the wildcard, so the API is never shadowed.
	if s.config.StaticDir != "" {
		s.router.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}

	return nil
}

// Router exposes the handler tree, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the store and any other connections the server opened.
func (s *Server) Close() error {
	err := s.closeExtras()
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (s *Server) closeExtras() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Start serves until SIGINT or SIGTERM, then gives in-flight requests 30
// seconds to finish and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing server resources", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("store", s.storeDescription()),
			slog.Bool("githubLogin", s.config.GitHubClientID != ""),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}

func (s *Server) storeDescription() string {
	if s.config.StoreDriver == DriverMongo {
		return "mongo/" + s.config.MongoDB
	}
	return "sqlite:" + s.config.DBPath
}
