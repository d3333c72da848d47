package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

var (
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.IShoppingService = (*MockShoppingService)(nil)
)

// MockRecipeService is a mock implementation of the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, filter types.RecipeFilter, viewerID uint) ([]types.Recipe, error) {
	args := m.Called(ctx, filter, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id, viewerID uint) (*types.Recipe, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uint, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, viewerID, id uint, req *types.UpdateRecipeRequest) (*types.Recipe, error) {
	args := m.Called(ctx, viewerID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, viewerID, id uint) error {
	args := m.Called(ctx, viewerID, id)
	return args.Error(0)
}

// MockShoppingService is a mock implementation of the ShoppingService interface
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) Items(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShoppingItem), args.Error(1)
}

func (m *MockShoppingService) Export(ctx context.Context, userID uint, format string) (*service.ShoppingList, error) {
	args := m.Called(ctx, userID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShoppingList), args.Error(1)
}
