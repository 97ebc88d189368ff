package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

var (
	// ErrNoRecipeJSON means the model answered without any JSON object.
	ErrNoRecipeJSON = errors.New("no valid JSON object found in the model response")
	// ErrInvalidRecipeJSON means the extracted object did not parse.
	ErrInvalidRecipeJSON = errors.New("invalid JSON format in the model response")
)

// Card fallbacks for fields the model left out.
const (
	DefaultTitle       = "Unknown Recipe"
	DefaultDescription = "No description available."
	DefaultImageURL    = "https://picsum.photos/400/300?random=1"
	defaultIDPrefix    = "default_id_"
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*\\})\\s*```")

// ExtractRecipeJSON finds the JSON object in raw model text: a ```json
// fenced block when present, otherwise everything from the first '{' to
// the last '}'.
func ExtractRecipeJSON(raw string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoRecipeJSON
	}
	return raw[start : end+1], nil
}

// flexibleInt accepts a JSON number, a numeric string such as "25" or
// "25 minutes", or null. Anything else, including numbers outside
// [0, math.MaxInt32], decodes to no value.
type flexibleInt struct {
	Value *int
}

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	f.Value = nil

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if num >= 0 && num <= math.MaxInt32 {
			n := int(num)
			f.Value = &n
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		digits := strings.TrimSpace(str)
		if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
			digits = digits[:i]
		}
		if n, err := strconv.Atoi(digits); err == nil && n <= math.MaxInt32 {
			f.Value = &n
		}
		return nil
	}
	return nil
}

// stringList accepts an array whose items are strings or any other JSON
// value; non-strings are kept as their compact JSON text.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a list: %w", err)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(item))
	}
	*l = out
	return nil
}

type modelRecipe struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	ShortDescription string      `json:"short_description"`
	ImageURL         string      `json:"image_url"`
	PrepTimeMinutes  flexibleInt `json:"preparation_time_minutes"`
	Difficulty       string      `json:"difficulty"`
	Ingredients      stringList  `json:"ingredients"`
	Instructions     stringList  `json:"instructions"`
}

// ParseRecipeCard extracts and decodes the recipe from raw model text,
// filling defaults for missing fields.
func ParseRecipeCard(raw string) (types.RecipeCard, error) {
	obj, err := ExtractRecipeJSON(raw)
	if err != nil {
		return types.RecipeCard{}, err
	}

	var r modelRecipe
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		return types.RecipeCard{}, fmt.Errorf("%w: %v", ErrInvalidRecipeJSON, err)
	}

	card := types.RecipeCard{
		ID:               strings.TrimSpace(r.ID),
		Title:            strings.TrimSpace(r.Title),
		ShortDescription: strings.TrimSpace(r.ShortDescription),
		ImageURL:         strings.TrimSpace(r.ImageURL),
		PrepTimeMinutes:  r.PrepTimeMinutes.Value,
		Difficulty:       strings.TrimSpace(r.Difficulty),
		Ingredients:      []string(r.Ingredients),
		Instructions:     []string(r.Instructions),
	}
	if card.ID == "" {
		card.ID = defaultIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if card.Title == "" {
		card.Title = DefaultTitle
	}
	if card.ShortDescription == "" {
		card.ShortDescription = DefaultDescription
	}
	if card.ImageURL == "" {
		card.ImageURL = DefaultImageURL
	}
	if card.Ingredients == nil {
		card.Ingredients = []string{}
	}
	if card.Instructions == nil {
		card.Instructions = []string{}
	}
	return card, nil
}
