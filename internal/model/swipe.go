package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

// Swipe directions as sent by clients.
const (
	DirectionLike    = "like"
	DirectionDislike = "dislike"
)

// Swipe is the latest verdict a user gave a recipe id. A user has at most
// one row per recipe, so like and dislike are mutually exclusive.
type Swipe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_swipe_user_recipe" json:"user_id"`
	RecipeID  string    `gorm:"size:255;not null;uniqueIndex:idx_swipe_user_recipe" json:"recipe_id"`
	Direction string    `gorm:"size:10;not null;index" json:"direction"`
}

// SavedRecipe is the full card of a liked recipe.
type SavedRecipe struct {
	ID               uint             `gorm:"primarykey" json:"-"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	UserID           uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_recipe" json:"user_id"`
	RecipeID         string           `gorm:"size:255;not null;uniqueIndex:idx_saved_user_recipe" json:"recipe_id"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	ShortDescription string           `gorm:"type:text" json:"short_description"`
	ImageURL         string           `gorm:"size:512" json:"image_url"`
	PrepTimeMinutes  *int             `json:"preparation_time_minutes"`
	Difficulty       string           `gorm:"size:50" json:"difficulty"`
	Ingredients      JSONBStringArray `gorm:"type:jsonb" json:"ingredients"`
	Instructions     JSONBStringArray `gorm:"type:jsonb" json:"instructions"`
}

// NewSavedRecipe copies card into a row owned by userID.
func NewSavedRecipe(userID uuid.UUID, card types.RecipeCard) SavedRecipe {
	return SavedRecipe{
		UserID:           userID,
		RecipeID:         card.ID,
		Title:            card.Title,
		ShortDescription: card.ShortDescription,
		ImageURL:         card.ImageURL,
		PrepTimeMinutes:  card.PrepTimeMinutes,
		Difficulty:       card.Difficulty,
		Ingredients:      JSONBStringArray(card.Ingredients),
		Instructions:     JSONBStringArray(card.Instructions),
	}
}

// Card converts the row back into the wire representation.
func (r SavedRecipe) Card() types.RecipeCard {
	return types.RecipeCard{
		ID:               r.RecipeID,
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		ImageURL:         r.ImageURL,
		PrepTimeMinutes:  r.PrepTimeMinutes,
		Difficulty:       r.Difficulty,
		Ingredients:      []string(r.Ingredients),
		Instructions:     []string(r.Instructions),
	}
}
