package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for token operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for user account operations
type IUserService interface {
	SignUp(ctx context.Context, req *types.SignUpRequest) (*types.User, error)
	ListUsers(ctx context.Context, viewerID uint) ([]types.User, error)
	GetUser(ctx context.Context, id, viewerID uint) (*types.User, error)
	SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error
}

// ISubscriptionService defines the interface for following authors
type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.Subscription, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	ListSubscriptions(ctx context.Context, userID uint, recipesLimit int) ([]types.Subscription, error)
}

// ITagService defines the interface for tag lookups
type ITagService interface {
	ListTags(ctx context.Context) ([]types.Tag, error)
	GetTag(ctx context.Context, id uint) (*types.Tag, error)
}

// IIngredientService defines the interface for ingredient lookups
type IIngredientService interface {
	SearchIngredients(ctx context.Context, prefix string) ([]types.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*types.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, filter types.RecipeFilter, viewerID uint) ([]types.Recipe, error)
	GetRecipe(ctx context.Context, id, viewerID uint) (*types.Recipe, error)
	CreateRecipe(ctx context.Context, authorID uint, req *types.CreateRecipeRequest) (*types.Recipe, error)
	UpdateRecipe(ctx context.Context, viewerID, id uint, req *types.UpdateRecipeRequest) (*types.Recipe, error)
	DeleteRecipe(ctx context.Context, viewerID, id uint) error
}

// IRelationService defines the interface for favorite and cart toggles
type IRelationService interface {
	Add(ctx context.Context, rel Relation, userID, recipeID uint) (*types.ShortRecipe, error)
	Remove(ctx context.Context, rel Relation, userID, recipeID uint) error
}

// IShoppingService defines the interface for shopping list export
type IShoppingService interface {
	Items(ctx context.Context, userID uint) ([]types.ShoppingItem, error)
	Export(ctx context.Context, userID uint, format string) (*ShoppingList, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ ITagService          = (*TagService)(nil)
	_ IIngredientService   = (*IngredientService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IRelationService     = (*RelationService)(nil)
	_ IShoppingService     = (*ShoppingService)(nil)
)
