package server

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"mailsift/internal/cache"
	"mailsift/internal/config"
	"mailsift/internal/handlers"
	"mailsift/internal/ingest"
	"mailsift/internal/store"
)

// Server represents the application server
type Server struct {
	echo   *echo.Echo
	store  *store.Store
	runner *ingest.Runner
	config *config.Config
	logger zerolog.Logger
	cache  *cache.Cache
}

// New creates a new server instance
func New(cfg *config.Config, st *store.Store, runner *ingest.Runner, logger zerolog.Logger) *Server {
	return &Server{
		config: cfg,
		store:  st,
		runner: runner,
		logger: logger,
		cache:  cache.New(),
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	// Health endpoint at root level for monitoring
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))

	// API endpoints under /api prefix
	api := s.echo.Group("/api")
	api.GET("/emails/recent", handlers.RecentEmailsHandler(s.store))
	api.GET("/emails/unprocessed", handlers.UnprocessedEmailsHandler(s.store))
	api.GET("/emails/search", handlers.SearchEmailsHandler(s.store, s.cache))
	api.GET("/threads/:id", handlers.ThreadHandler(s.store))
	api.GET("/stats", handlers.StatsHandler(s.store, s.cache))
	api.POST("/import", handlers.ImportHandler(s.runner, s.cache, s.logger))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}
