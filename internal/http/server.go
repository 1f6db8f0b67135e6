// Package http provides the HTTP server, routing, and request middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/legacykeep/user-service/internal/auth/http"
	authService "github.com/legacykeep/user-service/internal/auth/service"
	"github.com/legacykeep/user-service/internal/config"
	"github.com/legacykeep/user-service/internal/metrics"
	profileHTTP "github.com/legacykeep/user-service/internal/profile/http"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
	ready  atomic.Bool
}

// NewServer creates a new HTTP server with routing and middleware configured.
// The meterProvider may be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	tokenValidator authService.TokenValidator,
	profileHandler *profileHTTP.ProfileHandler,
	meterProvider metric.MeterProvider,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	// Token validation runs on every request; requests without valid
	// credentials proceed unauthenticated and are rejected per-route.
	router.Use(authHTTP.AuthenticationMiddleware(tokenValidator, logger))

	server := &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	router.GET("/health", server.healthHandler)
	router.GET("/ready", server.readinessHandler)

	v1 := router.Group("/v1")
	profiles := v1.Group("/profiles")

	// Public routes
	profiles.GET("", profileHandler.ListHandler)
	profiles.GET("/:id", profileHandler.GetHandler)

	// Authenticated routes
	authenticated := profiles.Group("")
	authenticated.Use(authHTTP.RequirePrincipal(logger))
	if cfg.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	authenticated.POST("", profileHandler.CreateHandler)
	authenticated.GET("/me", profileHandler.GetOwnHandler)
	authenticated.PUT("/me", profileHandler.UpdateHandler)
	authenticated.DELETE("/me", profileHandler.DeleteHandler)
	authenticated.GET("/lookup", profileHandler.LookupHandler)

	return server
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.ready.Store(true)

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server is accepting traffic.
func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
