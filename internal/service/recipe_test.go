package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/recipeswipers/recipeswipe/internal/cache"
	"github.com/recipeswipers/recipeswipe/internal/metrics"
	"github.com/recipeswipers/recipeswipe/internal/mocks"
	"github.com/recipeswipers/recipeswipe/internal/model"
	"github.com/recipeswipers/recipeswipe/internal/service"
	"github.com/recipeswipers/recipeswipe/internal/testhelpers"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

const generationsHeader = `# HELP recipe_generations_total Recipe generation attempts by outcome
# TYPE recipe_generations_total counter
`

const soupJSON = `{"id":"tomato_soup","title":"Tomato Soup","short_description":"Warm.","preparation_time_minutes":30,"ingredients":["tomato"],"instructions":["simmer"]}`

func TestRecipeServiceUnavailable(t *testing.T) {
	collector := metrics.New()
	svc := service.NewRecipeService(nil, nil, nil, collector, nil)

	assert.False(t, svc.Available())
	_, err := svc.Generate(context.Background(), nil, uuid.Nil)
	assert.ErrorIs(t, err, service.ErrModelUnavailable)
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(generationsHeader+
		`recipe_generations_total{outcome="unavailable"} 1
`), "recipe_generations_total"))
}

func TestRecipeServiceGenerateCachesCard(t *testing.T) {
	gen := &mocks.MockRecipeGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Meal type: dinner.")
	})).Return("```json\n"+soupJSON+"\n```", nil).Once()

	recipes := cache.NewMemoryCache(0)
	svc := service.NewRecipeService(gen, recipes, nil, nil, zaptest.NewLogger(t))

	card, err := svc.Generate(context.Background(), types.Filters{types.FilterMealType: "dinner"}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "tomato_soup", card.ID)

	cached, err := recipes.Get(context.Background(), "tomato_soup")
	require.NoError(t, err)
	assert.Equal(t, card, cached)
	gen.AssertExpectations(t)
}

func TestRecipeServiceAvoidsDislikes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	swipes := service.NewSwipeService(db, nil, nil)
	userID := newUser(t, service.NewAuthService(db, "s"), "jack")
	ctx := context.Background()
	require.NoError(t, swipes.Record(ctx, userID, "liver_pate", model.DirectionDislike, nil))

	gen := &mocks.MockRecipeGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return containsAll(p, "liver_pate", "Generate something new.")
	})).Return(soupJSON, nil).Once()

	svc := service.NewRecipeService(gen, nil, swipes, nil, nil)
	_, err := svc.Generate(ctx, nil, userID)
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestRecipeServiceFailures(t *testing.T) {
	collector := metrics.New()

	gen := &mocks.MockRecipeGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return("sorry, no recipe today", nil).Once()

	svc := service.NewRecipeService(gen, nil, nil, collector, nil)

	_, err := svc.Generate(context.Background(), nil, uuid.Nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = svc.Generate(context.Background(), nil, uuid.Nil)
	assert.ErrorIs(t, err, service.ErrNoRecipeJSON)

	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(generationsHeader+
		`recipe_generations_total{outcome="model_error"} 1
recipe_generations_total{outcome="parse_error"} 1
`), "recipe_generations_total"))
	gen.AssertExpectations(t)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func TestRecipeServiceCacheFailureStillReturnsCard(t *testing.T) {
	gen := &mocks.MockRecipeGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(soupJSON, nil).Once()
	recipes := &mocks.MockRecipeCache{}
	recipes.On("Put", mock.Anything, mock.MatchedBy(func(c types.RecipeCard) bool { return c.ID == "tomato_soup" })).
		Return(errors.New("redis unavailable")).Once()

	svc := service.NewRecipeService(gen, recipes, nil, nil, zaptest.NewLogger(t))
	card, err := svc.Generate(context.Background(), nil, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", card.Title)
	recipes.AssertExpectations(t)
}
