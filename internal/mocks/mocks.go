// Package mocks holds testify mocks for the interfaces shared across
// packages.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

// MockRecipeGenerator is a mock implementation of service.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method
func (m *MockRecipeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockRecipeCache is a mock implementation of cache.RecipeCache
type MockRecipeCache struct {
	mock.Mock
}

// Put mocks the Put method
func (m *MockRecipeCache) Put(ctx context.Context, card types.RecipeCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// Get mocks the Get method
func (m *MockRecipeCache) Get(ctx context.Context, id string) (types.RecipeCard, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(types.RecipeCard)
	return card, args.Error(1)
}

// MockTokenValidator is a mock implementation of middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

// ValidateToken mocks the ValidateToken method
func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
