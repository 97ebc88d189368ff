package service

import (
	"fmt"
	"strings"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

const recipePromptHeader = `Generate one unique, creative, and practical recipe. Provide the output strictly as a JSON object with the following structure:
{
  "id": "unique_string_id",
  "title": "string",
  "short_description": "string (max 2 sentences, engaging and concise)",
  "image_url": "string (a placeholder URL for an image, e.g., from Unsplash.com or LoremPicsum.photos)",
  "preparation_time_minutes": "integer",
  "difficulty": "string (e.g., 'Easy', 'Medium', 'Hard')",
  "ingredients": [
    "string (ingredient 1)",
    "string (ingredient 2)",
    "..."
  ],
  "instructions": [
    "string (step 1)",
    "string (step 2)",
    "..."
  ]
}
Ensure the recipe is not too complex and provide a unique ID that fits the recipe.
For 'image_url', use a generic placeholder like 'https://picsum.photos/400/300?random=1'
`

const recipePromptFooter = "\n\nImportant: ONLY return the JSON object, without any extra text before or after it. Ensure the JSON is valid and complete."

// filterLines pairs each filter key with its prompt wording, in prompt order.
var filterLines = []struct {
	key    string
	format string
}{
	{types.FilterMealType, "\n- Meal type: %s."},
	{types.FilterIngredients, "\n- Must contain these ingredients: %s."},
	{types.FilterBudget, "\n- Budget: %s."},
	{types.FilterPeople, "\n- Number of people: %s."},
}

// BuildRecipePrompt returns the model prompt for one recipe. Empty filters
// are left out; avoid lists recipe ids the user disliked.
func BuildRecipePrompt(filters types.Filters, avoid []string) string {
	var b strings.Builder
	b.WriteString(recipePromptHeader)
	for _, line := range filterLines {
		if v := strings.TrimSpace(filters[line.key]); v != "" {
			fmt.Fprintf(&b, line.format, v)
		}
	}
	if len(avoid) > 0 {
		fmt.Fprintf(&b, "\n- Avoid recipes similar to these IDs: %s. Generate something new.", strings.Join(avoid, ", "))
	}
	b.WriteString(recipePromptFooter)
	return b.String()
}
