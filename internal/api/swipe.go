package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/metrics"
	"github.com/recipeswipers/recipeswipe/internal/middleware"
	"github.com/recipeswipers/recipeswipe/internal/service"
)

// SwipeHandler records verdicts and serves the saved list. Its routes
// require auth.
type SwipeHandler struct {
	auth    *service.AuthService
	swipes  *service.SwipeService
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewSwipeHandler(auth *service.AuthService, swipes *service.SwipeService, collector *metrics.Collector, logger *zap.Logger) *SwipeHandler {
	return &SwipeHandler{auth: auth, swipes: swipes, metrics: collector, logger: logger}
}

func (h *SwipeHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/swipe", h.Swipe)
	router.GET("/saved", h.Saved)
}

// currentUser resolves the authenticated user, writing the error response
// when there is none.
func currentUser(c *gin.Context, auth *service.AuthService) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	if _, err := auth.GetUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		}
		return uuid.Nil, false
	}
	return userID, true
}

func (h *SwipeHandler) Swipe(c *gin.Context) {
	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	userID, ok := currentUser(c, h.auth)
	if !ok {
		return
	}

	err := h.swipes.Record(c.Request.Context(), userID, req.RecipeID, req.Direction, req.Recipe)
	switch {
	case errors.Is(err, service.ErrMissingRecipeID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeId is required"})
		return
	case errors.Is(err, service.ErrInvalidDirection):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid swipe direction"})
		return
	case err != nil:
		h.logger.Error("failed to record swipe", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record swipe"})
		return
	}

	h.metrics.Swiped(req.Direction)
	c.JSON(http.StatusOK, MessageResponse{Message: "Swipe recorded"})
}

func (h *SwipeHandler) Saved(c *gin.Context) {
	userID, ok := currentUser(c, h.auth)
	if !ok {
		return
	}
	cards, err := h.swipes.Saved(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list saved recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved recipes"})
		return
	}
	c.JSON(http.StatusOK, SavedResponse{Recipes: cards})
}
