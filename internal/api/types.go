package api

import "github.com/recipeswipers/recipeswipe/internal/types"

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Token   string `json:"token"`
}

// SwipeRequest records one verdict. Recipe carries the full card so a like
// can be saved even when the server no longer has it cached.
type SwipeRequest struct {
	RecipeID  string            `json:"recipeId"`
	Direction string            `json:"direction"`
	Recipe    *types.RecipeCard `json:"recipe,omitempty"`
}

type PreferencesRequest struct {
	Preferences map[string]string `json:"preferences"`
}

type PreferencesResponse struct {
	Preferences types.Filters `json:"preferences"`
}

type SavedResponse struct {
	Recipes []types.RecipeCard `json:"recipes"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
