package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recipeswipers/recipeswipe/internal/service"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

func TestBuildRecipePromptNoFilters(t *testing.T) {
	prompt := service.BuildRecipePrompt(nil, nil)
	assert.Contains(t, prompt, `"preparation_time_minutes"`)
	assert.NotContains(t, prompt, "Meal type")
	assert.NotContains(t, prompt, "Avoid")
	assert.True(t, strings.HasSuffix(prompt, "Ensure the JSON is valid and complete."))
}

func TestBuildRecipePromptFiltersInOrder(t *testing.T) {
	prompt := service.BuildRecipePrompt(types.Filters{
		types.FilterPeople:      "4",
		types.FilterMealType:    "dinner",
		types.FilterBudget:      "  ",
		types.FilterIngredients: "rice, eggs",
	}, []string{"soup_1", "stew_2"})

	meal := strings.Index(prompt, "\n- Meal type: dinner.")
	ingredients := strings.Index(prompt, "\n- Must contain these ingredients: rice, eggs.")
	people := strings.Index(prompt, "\n- Number of people: 4.")
	avoid := strings.Index(prompt, "soup_1, stew_2")

	assert.Greater(t, meal, 0)
	assert.Greater(t, ingredients, meal)
	assert.Greater(t, people, ingredients)
	assert.Greater(t, avoid, people)
	assert.NotContains(t, prompt, "Budget")
}
