package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeswipers/recipeswipe/internal/api"
	"github.com/recipeswipers/recipeswipe/internal/model"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

func TestSwipeLikeSavesCachedCard(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{reply: pancakeReply})
	user := env.register(t, "erin")

	w := env.do(t, http.MethodGet, "/api/recipe", nil, user.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/swipe", api.SwipeRequest{RecipeID: "fluffy_pancakes", Direction: model.DirectionLike}, user.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, countSwipes(t, env, "like"))

	w = env.do(t, http.MethodGet, "/api/saved", nil, user.Token)
	require.Equal(t, http.StatusOK, w.Code)
	saved := decode[api.SavedResponse](t, w)
	require.Len(t, saved.Recipes, 1)
	assert.Equal(t, "Fluffy Pancakes", saved.Recipes[0].Title)

	// Disliking later removes it from the saved list.
	w = env.do(t, http.MethodPost, "/api/swipe", api.SwipeRequest{RecipeID: "fluffy_pancakes", Direction: model.DirectionDislike}, user.Token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/saved", nil, user.Token)
	assert.Empty(t, decode[api.SavedResponse](t, w).Recipes)
}

func TestSwipeLikeWithBodyCard(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.register(t, "fay")

	card := &types.RecipeCard{ID: "tacos", Title: "Tacos", Ingredients: []string{"tortilla"}, Instructions: []string{"fill"}}
	w := env.do(t, http.MethodPost, "/api/swipe", api.SwipeRequest{RecipeID: "tacos", Direction: model.DirectionLike, Recipe: card}, user.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/saved", nil, user.Token)
	saved := decode[api.SavedResponse](t, w)
	require.Len(t, saved.Recipes, 1)
	assert.Equal(t, *card, saved.Recipes[0])
}

func TestSwipeErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.register(t, "gus")

	w := env.do(t, http.MethodPost, "/api/swipe", api.SwipeRequest{RecipeID: "x", Direction: "like"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/swipe", api.SwipeRequest{RecipeID: "x", Direction: "sideways"}, user.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/swipe", api.SwipeRequest{Direction: "like"}, user.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A valid token for a user that no longer exists.
	require.NoError(t, env.db.Unscoped().Where("username = ?", "gus").Delete(&model.User{}).Error)
	w = env.do(t, http.MethodPost, "/api/swipe", api.SwipeRequest{RecipeID: "x", Direction: "like"}, user.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.register(t, "hal")

	w := env.do(t, http.MethodGet, "/api/preferences", nil, user.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[api.PreferencesResponse](t, w).Preferences)

	w = env.do(t, http.MethodPost, "/api/preferences", api.PreferencesRequest{Preferences: map[string]string{"mealType": "lunch", "budget": "low"}}, user.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/preferences", api.PreferencesRequest{Preferences: map[string]string{"budget": "high"}}, user.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Filters{"mealType": "lunch", "budget": "high"}, decode[api.PreferencesResponse](t, w).Preferences)

	w = env.do(t, http.MethodGet, "/api/preferences", nil, user.Token)
	assert.Equal(t, types.Filters{"mealType": "lunch", "budget": "high"}, decode[api.PreferencesResponse](t, w).Preferences)

	w = env.do(t, http.MethodPost, "/api/preferences", map[string]string{"nope": "x"}, user.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/preferences", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func countSwipes(t *testing.T, env *testEnv, direction string) int {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&model.Swipe{}).Where("direction = ?", direction).Count(&n).Error)
	return int(n)
}
