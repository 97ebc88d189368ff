package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipeswipers/recipeswipe/internal/middleware"
	"github.com/recipeswipers/recipeswipe/internal/service"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

// RecipeHandler serves generated recipe cards.
type RecipeHandler struct {
	recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes mounts GET /recipe behind mw, which normally holds the
// optional auth and rate limiting middleware.
func (h *RecipeHandler) RegisterRoutes(router gin.IRouter, mw ...gin.HandlerFunc) {
	handlers := append([]gin.HandlerFunc{}, mw...)
	router.GET("/recipe", append(handlers, h.GetRecipe)...)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	filters := types.FiltersFromQuery(c.Request.URL.Query())
	userID, _ := middleware.UserIDFromContext(c)

	card, err := h.recipes.Generate(c.Request.Context(), filters, userID)
	switch {
	case errors.Is(err, service.ErrModelUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recipe model is not configured on the server"})
		return
	case errors.Is(err, service.ErrNoRecipeJSON), errors.Is(err, service.ErrInvalidRecipeJSON):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse recipe from the model response"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recipe"})
		return
	}

	c.JSON(http.StatusOK, card)
}
