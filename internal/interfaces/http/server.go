// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/middleware"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/routes"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthCheck reports whether one backing service is reachable
type HealthCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	checks     map[string]HealthCheck
	startedAt  time.Time
}

// Options are the optional collaborators of the server
type Options struct {
	// RateLimits is nil to disable rate limiting
	RateLimits middleware.RateLimitStore
	// Checks are run by /ready
	Checks map[string]HealthCheck
}

// NewServer builds the engine with middleware and routes
func NewServer(deps routes.Dependencies, logger *logrus.Logger, opts Options) *Server {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	deps.Logger = logger
	response.SetupValidator()

	s := &Server{
		config:    deps.Config,
		logger:    logger,
		gin:       gin.New(),
		checks:    opts.Checks,
		startedAt: time.Now(),
	}
	if err := s.gin.SetTrustedProxies(deps.Config.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("Ignoring invalid trusted proxies")
	}

	s.setupMiddleware(opts.RateLimits)
	s.setupRoutes(deps)
	return s
}

// Handler exposes the engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

func (s *Server) setupMiddleware(rateLimits middleware.RateLimitStore) {
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.Recovery(s.logger))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders(s.config.IsProduction()))
	if rateLimits != nil {
		s.gin.Use(middleware.RateLimit(rateLimits, s.config.Security.RateLimitPerMinute, s.logger))
	}
	s.gin.Use(middleware.BodyLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Deadline(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes(deps routes.Dependencies) {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	routes.SetupRoutes(s.gin.Group("/api/v1"), deps)

	s.gin.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, shared.CodeNotFound, "Route not found")
	})
}

// healthCheck reports that the process is up
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck runs every registered health check
func (s *Server) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := gin.H{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.WithError(err).WithField("check", name).Warn("Readiness check failed")
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": results,
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}
