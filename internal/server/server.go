// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/api"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/config"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/db"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/ledger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/middleware"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/playback"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/signedurl"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/timeline"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	timelineService *timeline.Service
	ledgerService   *ledger.Service
	urlManager      *signedurl.Manager
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance. issuer is the storage backend used for
// signed playback URLs.
func New(cfg *config.Config, database *db.DB, issuer signedurl.Issuer) *Server {
	repos := db.NewRepositories(database)
	timelineService := timeline.NewService(repos, cfg.Playback.MaxLanes)
	ledgerService := ledger.NewService(repos)
	urlManager := signedurl.NewManager(issuer, cfg.Storage.URLTTL, cfg.Storage.RefreshLead)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		timelineService: timelineService,
		ledgerService:   ledgerService,
		urlManager:      urlManager,
	}
}

// NewPlaybackSession builds a camera-switching session for one game, driven
// by the server's timeline service, URL manager, selection ledger, and
// playback tuning. The caller owns the session and must Shutdown it when the
// viewer leaves.
func (s *Server) NewPlaybackSession(gameID uuid.UUID, player playback.MediaPlayer, handoff playback.HandoffFunc) *playback.Switcher {
	return playback.NewSession(
		gameID,
		&s.config.Playback,
		s.timelineService,
		s.urlManager,
		player,
		s.ledgerService,
		handoff,
	)
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api/v1")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupTimelineRoutes(apiGroup, s.timelineService, s.urlManager)
	api.SetupSelectionRoutes(apiGroup, s.ledgerService)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
