package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipeswipers/recipeswipe/config"
	"github.com/recipeswipers/recipeswipe/internal/cache"
	"github.com/recipeswipers/recipeswipe/internal/metrics"
	"github.com/recipeswipers/recipeswipe/internal/middleware"
	"github.com/recipeswipers/recipeswipe/internal/router"
	"github.com/recipeswipers/recipeswipe/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	logger *zap.Logger
}

// Options carries the optional collaborators of New.
type Options struct {
	// Redis backs the recipe cache and rate limiter when set; otherwise
	// in-process versions are used.
	Redis *redis.Client
	// Generator overrides the Gemini client built from cfg.
	Generator service.RecipeGenerator
	Metrics   *metrics.Collector
}

// New wires services and routes from cfg.
func New(cfg *config.Config, db *gorm.DB, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.New()
	}

	var recipes cache.RecipeCache
	if opts.Redis != nil {
		recipes = cache.NewRedisCache(opts.Redis, cache.DefaultTTL)
	} else {
		recipes = cache.NewMemoryCache(cache.DefaultTTL)
	}

	generator := opts.Generator
	if generator == nil {
		gemini, err := service.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiAPIURL, nil, logger.Named("gemini"))
		if err != nil {
			logger.Warn("recipe model disabled", zap.Error(err))
		} else {
			generator = gemini
		}
	}

	var limiter middleware.Limiter
	if cfg.RecipeRateLimit > 0 {
		limitCfg := middleware.RecipeRateLimitConfig(cfg.RecipeRateLimit)
		if opts.Redis != nil {
			limiter = middleware.NewRedisLimiter(opts.Redis, limitCfg)
		} else {
			limiter = middleware.NewLocalLimiter(limitCfg)
		}
	}

	auth := service.NewAuthService(db, cfg.JWTSecret)
	swipes := service.NewSwipeService(db, recipes, logger)

	engine := router.SetupRouter(router.Dependencies{
		DB:             db,
		Auth:           auth,
		Recipes:        service.NewRecipeService(generator, recipes, swipes, collector, logger),
		Swipes:         swipes,
		Preferences:    service.NewPreferenceService(db),
		RecipeLimiter:  limiter,
		Metrics:        collector,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		FrontendDir:    cfg.FrontendDir,
	})

	return &Server{cfg: cfg, router: engine, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
