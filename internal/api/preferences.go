package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/service"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

type PreferenceHandler struct {
	auth   *service.AuthService
	prefs  *service.PreferenceService
	logger *zap.Logger
}

func NewPreferenceHandler(auth *service.AuthService, prefs *service.PreferenceService, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{auth: auth, prefs: prefs, logger: logger}
}

func (h *PreferenceHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/preferences", h.Get)
	router.POST("/preferences", h.Update)
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c, h.auth)
	if !ok {
		return
	}
	prefs, err := h.prefs.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PreferencesResponse{Preferences: prefs})
}

func (h *PreferenceHandler) Update(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Preferences == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preferences object is required"})
		return
	}
	userID, ok := currentUser(c, h.auth)
	if !ok {
		return
	}
	prefs, err := h.prefs.Merge(c.Request.Context(), userID, types.Filters(req.Preferences))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PreferencesResponse{Preferences: prefs})
}

func (h *PreferenceHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	h.logger.Error("preference update failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
}
