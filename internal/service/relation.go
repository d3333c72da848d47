package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Relation is a user to recipe join that can be toggled
type Relation struct {
	// Name labels logs and metrics
	Name string
	// Label is used in user-facing messages
	Label string
	newRow func(userID, recipeID uint) interface{}
}

var (
	Favorites = Relation{
		Name:  "favorite",
		Label: "favorites",
		newRow: func(userID, recipeID uint) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
	ShoppingCart = Relation{
		Name:  "shopping_cart",
		Label: "shopping cart",
		newRow: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}
)

// RelationService adds and removes favorites and shopping cart entries
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Add creates the relation row and returns the short recipe view. An
// existing row, including one inserted concurrently, is a conflict.
func (s *RelationService) Add(ctx context.Context, rel Relation, userID, recipeID uint) (*types.ShortRecipe, error) {
	db := s.db.WithContext(ctx)

	recipe, err := s.recipe(db, recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.exists(db, rel, userID, recipeID)
	if err != nil {
		return nil, err
	}
	alreadyMsg := fmt.Sprintf("recipe is already in %s", rel.Label)
	if exists {
		return nil, newConflict(alreadyMsg)
	}

	if err := db.Create(rel.newRow(userID, recipeID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newConflict(alreadyMsg)
		}
		return nil, fmt.Errorf("failed to add recipe to %s: %w", rel.Label, err)
	}

	metrics.RecordRelationChange(rel.Name, true)
	logging.Debug().Str("relation", rel.Name).Uint("user_id", userID).Uint("recipe_id", recipeID).Msg("relation added")
	short := toShortRecipe(*recipe)
	return &short, nil
}

// Remove deletes the relation row; removing an absent row is a conflict
func (s *RelationService) Remove(ctx context.Context, rel Relation, userID, recipeID uint) error {
	db := s.db.WithContext(ctx)

	if _, err := s.recipe(db, recipeID); err != nil {
		return err
	}

	result := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(rel.newRow(0, 0))
	if result.Error != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", rel.Label, result.Error)
	}
	if result.RowsAffected == 0 {
		return newConflict(fmt.Sprintf("recipe is not in %s", rel.Label))
	}

	metrics.RecordRelationChange(rel.Name, false)
	logging.Debug().Str("relation", rel.Name).Uint("user_id", userID).Uint("recipe_id", recipeID).Msg("relation removed")
	return nil
}

func (s *RelationService) recipe(db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RelationService) exists(db *gorm.DB, rel Relation, userID, recipeID uint) (bool, error) {
	var count int64
	err := db.Model(rel.newRow(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", rel.Label, err)
	}
	return count > 0, nil
}
