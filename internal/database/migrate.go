package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/recipeswipers/recipeswipe/internal/model"
)

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Swipe{},
		&model.SavedRecipe{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
