package types

import (
	"net/url"
	"sort"
)

// RecipeCard is one generated recipe as served by GET /api/recipe and
// rendered as a swipe card. Cards are never mutated after they are fetched.
type RecipeCard struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	ImageURL         string   `json:"image_url,omitempty"`
	PrepTimeMinutes  *int     `json:"preparation_time_minutes"`
	Difficulty       string   `json:"difficulty,omitempty"`
	Ingredients      []string `json:"ingredients"`
	Instructions     []string `json:"instructions"`
}

// Filter keys understood by the recipe endpoint.
const (
	FilterMealType    = "mealType"
	FilterIngredients = "ingredients"
	FilterBudget      = "budget"
	FilterPeople      = "people"
)

// FilterKeys lists every filter the recipe endpoint understands.
var FilterKeys = []string{FilterMealType, FilterIngredients, FilterBudget, FilterPeople}

// Filters maps a filter name to the value chosen by the user. They are sent
// verbatim as query parameters on every fetch until changed.
type Filters map[string]string

// Clone returns an independent copy; a nil receiver yields an empty map.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Query encodes the filters as URL query parameters.
func (f Filters) Query() url.Values {
	q := url.Values{}
	for k, v := range f {
		q.Set(k, v)
	}
	return q
}

// Keys returns the filter names in sorted order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FiltersFromQuery picks the known filter keys out of a query string.
func FiltersFromQuery(q url.Values) Filters {
	f := Filters{}
	for _, key := range FilterKeys {
		if v := q.Get(key); v != "" {
			f[key] = v
		}
	}
	return f
}
