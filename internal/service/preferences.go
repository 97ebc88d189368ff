package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipeswipers/recipeswipe/internal/model"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

// PreferenceService persists the filter values a user last chose.
type PreferenceService struct {
	db *gorm.DB
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// Get returns the user's saved preferences.
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (types.Filters, error) {
	user, err := s.load(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return types.Filters(user.Preferences).Clone(), nil
}

// Merge applies update on top of the stored preferences and returns the
// result. An empty value removes its key.
func (s *PreferenceService) Merge(ctx context.Context, userID uuid.UUID, update types.Filters) (types.Filters, error) {
	var merged types.Filters
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.load(tx, userID)
		if err != nil {
			return err
		}
		merged = types.Filters(user.Preferences).Clone()
		for k, v := range update {
			if v == "" {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}
		if err := tx.Model(user).Update("preferences", model.JSONBStringMap(merged)).Error; err != nil {
			return fmt.Errorf("failed to save preferences: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *PreferenceService) load(db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	var user model.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
