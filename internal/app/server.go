// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"account_portal/internal/common"
	"account_portal/internal/config"
	"account_portal/internal/jobs"
	"account_portal/internal/middleware"
	"account_portal/internal/platform/metrics"
	platformredis "account_portal/internal/platform/redis"
	"account_portal/internal/screens"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	redis      *platformredis.Client

	// Jobs
	limiterSweepJob *jobs.LimiterSweepJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	rdb *platformredis.Client,
	visitors *middleware.VisitorSessions,
	limiter *middleware.RateLimiter,
	screensHandler *screens.Handler,
	limiterSweepJob *jobs.LimiterSweepJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(screens.Templates())

	s := &Server{
		router:          router,
		cfg:             cfg,
		logger:          logger,
		redis:           rdb,
		limiterSweepJob: limiterSweepJob,
	}

	// --- Setup Routes ---
	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := router.Group("/api/v1", cors.New(corsConfig(cfg)), visitors.Middleware())
	screensHandler.RegisterAPIRoutes(v1)

	pages := router.Group("/", visitors.Middleware(), limiter.Middleware(), middleware.CSRF(logger.Named("csrf")))
	screensHandler.RegisterRoutes(pages)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, v1.BasePath()+"/") {
			_ = c.Error(common.ErrNotFound)
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, screens.PathSignIn)
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}

	allowAll := len(cfg.CORSAllowedOrigins) == 0
	for _, o := range cfg.CORSAllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}

func (s *Server) health(c *gin.Context) {
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.Health(ctx); err != nil {
			s.logger.Warn("Health check: redis unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "redis": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Account portal is healthy!"})
}

// Router exposes the gin engine (tests drive it with httptest).
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.limiterSweepJob != nil {
		if err := s.limiterSweepJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start rate limiter sweep job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.limiterSweepJob != nil {
		s.limiterSweepJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
