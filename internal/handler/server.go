// Package handler provides the HTTP API server and handlers.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"backlog-tracker/internal/model"
	"backlog-tracker/internal/pkg/db"
	"backlog-tracker/internal/repository"
	"backlog-tracker/internal/service"
)

// GamesService is the game operations contract consumed by the handlers.
// *service.GameService implements it.
type GamesService interface {
	List(ctx context.Context, userID int64) ([]*model.Game, error)
	Get(ctx context.Context, userID, id int64) (*model.Game, error)
	Create(ctx context.Context, g *model.Game) (*model.Game, error)
	Update(ctx context.Context, userID, id int64, p repository.UpdateGameParams) (*model.Game, error)
	Delete(ctx context.Context, userID, id int64) error
	Reorder(ctx context.Context, userID, gameID int64, targetIndex int, statusLabel string) (*model.ReorderResult, error)
	ListStatusRanks(ctx context.Context) ([]*model.StatusRank, error)
	SetStatusRank(ctx context.Context, statusLabel string, rank int) error
}

// InsightsProvider serves aggregated insight reports.
// *service.InsightsService implements it.
type InsightsProvider interface {
	Get(ctx context.Context, userID int64, weeklyPace int, includeMissing bool) (*service.Report, error)
}

// MetadataRefresher refreshes cached external metadata.
// *service.MetadataService implements it.
type MetadataRefresher interface {
	Refresh(ctx context.Context, userID, gameID int64) (map[string]any, error)
}

// HealthChecker reports storage liveness and pool usage. *db.Pool
// implements it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() db.PoolStats
}

// Config holds handler-level configuration.
type Config struct {
	// AuthToken is the expected bearer token; empty disables auth.
	AuthToken string
	// UserID is the backlog owner resolved by the auth middleware.
	UserID int64
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg      Config
	games    GamesService
	insights InsightsProvider
	metadata MetadataRefresher
	health   HealthChecker
	router   *chi.Mux
	logger   zerolog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg Config, games GamesService, ins InsightsProvider, meta MetadataRefresher, health HealthChecker, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		games:    games,
		insights: ins,
		metadata: meta,
		health:   health,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/games", func(r chi.Router) {
			r.Get("/", s.handleListGames)
			r.Post("/", s.handleCreateGame)
			r.Get("/{id}", s.handleGetGame)
			r.Patch("/{id}", s.handleUpdateGame)
			r.Delete("/{id}", s.handleDeleteGame)
			r.Post("/{id}/reorder", s.handleReorderGame)
			r.Post("/{id}/metadata", s.handleRefreshMetadata)
		})

		r.Get("/insights", s.handleGetInsights)

		r.Route("/statuses", func(r chi.Router) {
			r.Get("/", s.handleListStatusRanks)
			r.Put("/{status}", s.handleSetStatusRank)
		})
	})
}
