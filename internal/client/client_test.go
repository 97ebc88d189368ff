package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/recipeswipers/recipeswipe/config"
	"github.com/recipeswipers/recipeswipe/internal/client"
	"github.com/recipeswipers/recipeswipe/internal/server"
	"github.com/recipeswipers/recipeswipe/internal/swipe"
	"github.com/recipeswipers/recipeswipe/internal/testhelpers"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

var (
	_ swipe.RecipeSource    = (*client.RecipeClient)(nil)
	_ swipe.PreferenceStore = (*client.PreferenceClient)(nil)
	_ swipe.DislikeRecorder = (*client.PreferenceClient)(nil)
)

type promptEcho struct {
	prompts []string
}

func (p *promptEcho) Generate(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return `{"id":"omelette","title":"Omelette","ingredients":["eggs"],"instructions":["whisk","cook"]}`, nil
}

func newBackend(t *testing.T, gen *promptEcho) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Environment:    config.Test,
		JWTSecret:      "test-secret",
		AllowedOrigins: []string{"*"},
	}
	srv := server.New(cfg, testhelpers.SetupTestDB(t), zaptest.NewLogger(t), server.Options{Generator: gen})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestRecipeClientFetch(t *testing.T) {
	gen := &promptEcho{}
	ts := newBackend(t, gen)
	recipes := client.NewRecipeClient(client.New(ts.URL, ts.Client()))

	card, err := recipes.Fetch(context.Background(), types.Filters{types.FilterMealType: "breakfast", types.FilterBudget: "low"})
	require.NoError(t, err)
	assert.Equal(t, "omelette", card.ID)
	assert.Equal(t, []string{"whisk", "cook"}, card.Instructions)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Meal type: breakfast.")
	assert.Contains(t, gen.prompts[0], "Budget: low.")
}

func TestRecipeClientErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("mealType") {
		case "down":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Recipe model is not configured on the server"}`))
		case "garbled":
			_, _ = w.Write([]byte(`<html>`))
		default:
			_, _ = w.Write([]byte(`{"title":"no id"}`))
		}
	}))
	defer ts.Close()
	recipes := client.NewRecipeClient(client.New(ts.URL, ts.Client()))
	ctx := context.Background()

	_, err := recipes.Fetch(ctx, types.Filters{"mealType": "down"})
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "not configured")

	_, err = recipes.Fetch(ctx, types.Filters{"mealType": "garbled"})
	assert.ErrorContains(t, err, "decode")

	_, err = recipes.Fetch(ctx, nil)
	assert.ErrorContains(t, err, "without an id")
}

func TestPreferenceClientRoundTrip(t *testing.T) {
	ts := newBackend(t, &promptEcho{})
	c := client.New(ts.URL, ts.Client())
	ctx := context.Background()

	prefs := client.NewPreferenceClient(c)
	err := prefs.Add(ctx, types.RecipeCard{ID: "x", Title: "X"})
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)

	require.NoError(t, c.Register(ctx, "ivan", "pw"))
	require.NotEmpty(t, c.Token())

	soup := types.RecipeCard{ID: "soup", Title: "Soup", Ingredients: []string{"water"}, Instructions: []string{"boil"}}
	stew := types.RecipeCard{ID: "stew", Title: "Stew", Ingredients: []string{"beef"}, Instructions: []string{"braise"}}
	require.NoError(t, prefs.Add(ctx, soup))
	require.NoError(t, prefs.Add(ctx, stew))
	require.NoError(t, prefs.AddDislike(ctx, stew))

	saved, err := prefs.All(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, soup, saved[0])

	// A second session sees the same saved list.
	other := client.New(ts.URL, ts.Client())
	require.NoError(t, other.Login(ctx, "ivan", "pw"))
	saved, err = client.NewPreferenceClient(other).All(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestPreferenceClientFilters(t *testing.T) {
	ts := newBackend(t, &promptEcho{})
	c := client.New(ts.URL, ts.Client())
	ctx := context.Background()
	require.NoError(t, c.Register(ctx, "filters", "pw"))
	prefs := client.NewPreferenceClient(c)

	stored, err := prefs.Preferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	saved, err := prefs.SavePreferences(ctx, types.Filters{types.FilterMealType: "dinner", types.FilterPeople: "3"})
	require.NoError(t, err)
	assert.Equal(t, types.Filters{types.FilterMealType: "dinner", types.FilterPeople: "3"}, saved)

	// Keys left out are cleared, so the stored set follows the latest choice.
	saved, err = prefs.SavePreferences(ctx, types.Filters{types.FilterBudget: "low"})
	require.NoError(t, err)
	assert.Equal(t, types.Filters{types.FilterBudget: "low"}, saved)

	stored, err = prefs.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Filters{types.FilterBudget: "low"}, stored)
}
