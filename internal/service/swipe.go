package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recipeswipers/recipeswipe/internal/cache"
	"github.com/recipeswipers/recipeswipe/internal/model"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

var (
	ErrInvalidDirection = errors.New("direction must be 'like' or 'dislike'")
	ErrMissingRecipeID  = errors.New("recipe_id is required")
)

// SwipeService records like/dislike verdicts and the saved list.
type SwipeService struct {
	db     *gorm.DB
	cache  cache.RecipeCache
	logger *zap.Logger
}

// NewSwipeService creates a swipe service. recipes may be nil.
func NewSwipeService(db *gorm.DB, recipes cache.RecipeCache, logger *zap.Logger) *SwipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwipeService{db: db, cache: recipes, logger: logger}
}

// Record stores the user's latest verdict on recipeID. A like also saves
// the full card, taken from card or else from the recipe cache; a dislike
// removes any saved copy. When neither source has the card only the
// verdict is stored.
func (s *SwipeService) Record(ctx context.Context, userID uuid.UUID, recipeID, direction string, card *types.RecipeCard) error {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return ErrMissingRecipeID
	}
	if direction != model.DirectionLike && direction != model.DirectionDislike {
		return ErrInvalidDirection
	}

	if direction == model.DirectionLike && card == nil && s.cache != nil {
		cached, err := s.cache.Get(ctx, recipeID)
		switch {
		case err == nil:
			card = &cached
		case errors.Is(err, cache.ErrMiss):
		default:
			s.logger.Warn("recipe cache lookup failed", zap.String("recipe_id", recipeID), zap.Error(err))
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swipe := model.Swipe{UserID: userID, RecipeID: recipeID, Direction: direction}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"direction", "updated_at"}),
		}).Create(&swipe).Error; err != nil {
			return fmt.Errorf("failed to record swipe: %w", err)
		}

		if direction == model.DirectionDislike {
			if err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.SavedRecipe{}).Error; err != nil {
				return fmt.Errorf("failed to remove saved recipe: %w", err)
			}
			return nil
		}

		if card == nil {
			s.logger.Debug("liked recipe without card", zap.String("recipe_id", recipeID))
			return nil
		}
		saved := *card
		saved.ID = recipeID
		row := model.NewSavedRecipe(userID, saved)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "short_description", "image_url", "prep_time_minutes",
				"difficulty", "ingredients", "instructions", "updated_at",
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		return nil
	})
}

// DislikedIDs lists the recipe ids the user currently dislikes, oldest first.
func (s *SwipeService) DislikedIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.idsWithDirection(ctx, userID, model.DirectionDislike)
}

// LikedIDs lists the recipe ids the user currently likes, oldest first.
func (s *SwipeService) LikedIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.idsWithDirection(ctx, userID, model.DirectionLike)
}

func (s *SwipeService) idsWithDirection(ctx context.Context, userID uuid.UUID, direction string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&model.Swipe{}).
		Where("user_id = ? AND direction = ?", userID, direction).
		Order("updated_at, id").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s swipes: %w", direction, err)
	}
	return ids, nil
}

// Saved returns the full cards the user liked, newest first.
func (s *SwipeService) Saved(ctx context.Context, userID uuid.UUID) ([]types.RecipeCard, error) {
	var rows []model.SavedRecipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	cards := make([]types.RecipeCard, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.Card())
	}
	return cards, nil
}
