package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipeswipers/recipeswipe/internal/api"
	"github.com/recipeswipers/recipeswipe/internal/metrics"
	"github.com/recipeswipers/recipeswipe/internal/middleware"
	"github.com/recipeswipers/recipeswipe/internal/service"
)

// Dependencies are the services the routes are built from. RecipeLimiter
// and Metrics may be nil.
type Dependencies struct {
	DB             *gorm.DB
	Auth           *service.AuthService
	Recipes        *service.RecipeService
	Swipes         *service.SwipeService
	Preferences    *service.PreferenceService
	RecipeLimiter  middleware.Limiter
	Metrics        *metrics.Collector
	Logger         *zap.Logger
	AllowedOrigins []string
	FrontendDir    string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.HTTPMiddleware())
	}
	router.Use(middleware.CORS(deps.AllowedOrigins))

	api.NewHealthHandler(deps.DB).RegisterRoutes(router)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v := router.Group("/api")

	recipeMW := []gin.HandlerFunc{middleware.OptionalAuth(deps.Auth)}
	if deps.RecipeLimiter != nil {
		var onLimited func()
		if deps.Metrics != nil {
			onLimited = deps.Metrics.RateLimited
		}
		recipeMW = append(recipeMW, middleware.RateLimit(deps.RecipeLimiter, logger, onLimited))
	}
	api.NewRecipeHandler(deps.Recipes).RegisterRoutes(v, recipeMW...)
	api.NewAuthHandler(deps.Auth, deps.Metrics, logger).RegisterRoutes(v)

	protected := v.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	api.NewSwipeHandler(deps.Auth, deps.Swipes, deps.Metrics, logger).RegisterRoutes(protected)
	api.NewPreferenceHandler(deps.Auth, deps.Preferences, logger).RegisterRoutes(protected)

	if deps.FrontendDir != "" {
		serveFrontend(router, deps.FrontendDir, logger)
	}
	return router
}

// serveFrontend serves the built single-page app: existing files as-is,
// any other non-API path falls back to index.html.
func serveFrontend(router *gin.Engine, dir string, logger *zap.Logger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Warn("frontend directory has no index.html, not serving it", zap.String("dir", dir))
		return
	}
	router.NoRoute(func(c *gin.Context) {
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if !isRead || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(index)
	})
}
