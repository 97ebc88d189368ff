package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/cache"
	"github.com/recipeswipers/recipeswipe/internal/metrics"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

// RecipeService generates one recipe card per call.
type RecipeService struct {
	generator RecipeGenerator
	cache     cache.RecipeCache
	swipes    *SwipeService
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// NewRecipeService wires the pieces of recipe generation. generator may be
// nil when no model is configured, in which case Generate returns
// ErrModelUnavailable. recipes, swipes and collector are optional.
func NewRecipeService(generator RecipeGenerator, recipes cache.RecipeCache, swipes *SwipeService, collector *metrics.Collector, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{
		generator: generator,
		cache:     recipes,
		swipes:    swipes,
		metrics:   collector,
		logger:    logger,
	}
}

// Available reports whether a model is configured.
func (s *RecipeService) Available() bool {
	return s.generator != nil
}

// Generate asks the model for a recipe matching filters. When userID is set
// the user's disliked recipe ids are passed along so the model avoids them.
func (s *RecipeService) Generate(ctx context.Context, filters types.Filters, userID uuid.UUID) (types.RecipeCard, error) {
	if s.generator == nil {
		s.metrics.RecipeGenerated(metrics.OutcomeUnavailable, 0)
		return types.RecipeCard{}, ErrModelUnavailable
	}

	var avoid []string
	if userID != uuid.Nil && s.swipes != nil {
		ids, err := s.swipes.DislikedIDs(ctx, userID)
		if err != nil {
			s.logger.Warn("could not load disliked recipes", zap.String("user_id", userID.String()), zap.Error(err))
		} else {
			avoid = ids
		}
	}

	prompt := BuildRecipePrompt(filters, avoid)
	start := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		outcome := metrics.OutcomeModelError
		if errors.Is(err, ErrModelUnavailable) {
			outcome = metrics.OutcomeUnavailable
		}
		s.metrics.RecipeGenerated(outcome, elapsed)
		s.logger.Error("recipe generation failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return types.RecipeCard{}, fmt.Errorf("failed to generate recipe: %w", err)
	}

	card, err := ParseRecipeCard(raw)
	if err != nil {
		s.metrics.RecipeGenerated(metrics.OutcomeParseError, elapsed)
		s.logger.Error("could not parse model response",
			zap.Error(err),
			zap.Int("response_length", len(raw)),
		)
		return types.RecipeCard{}, err
	}
	s.metrics.RecipeGenerated(metrics.OutcomeSuccess, elapsed)

	if s.cache != nil {
		if err := s.cache.Put(ctx, card); err != nil {
			s.logger.Warn("could not cache recipe", zap.String("recipe_id", card.ID), zap.Error(err))
		}
	}

	s.logger.Info("recipe generated",
		zap.String("recipe_id", card.ID),
		zap.Strings("filters", filters.Keys()),
		zap.Int("avoided", len(avoid)),
		zap.Duration("elapsed", elapsed),
	)
	return card, nil
}
