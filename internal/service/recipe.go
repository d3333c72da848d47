package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const maxRecipeNameLength = 200

// RecipeService owns recipe persistence. Viewer ids of 0 denote anonymous
// callers throughout.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// ListRecipes returns the filtered recipe set ordered by id
func (s *RecipeService) ListRecipes(ctx context.Context, filter types.RecipeFilter, viewerID uint) ([]types.Recipe, error) {
	db := s.db.WithContext(ctx)
	query := applyRecipeFilter(db, preloadRecipe(db.Model(&models.Recipe{})), filter, viewerID)

	var recipes []models.Recipe
	if err := query.Order("recipes.id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return representRecipes(ctx, s.db, recipes, viewerID)
}

func (s *RecipeService) GetRecipe(ctx context.Context, id, viewerID uint) (*types.Recipe, error) {
	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := representRecipes(ctx, s.db, []models.Recipe{*recipe}, viewerID)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *RecipeService) loadRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// CreateRecipe validates the payload, stores the image and writes the recipe
// with its ingredient and tag rows in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, req *types.CreateRecipeRequest) (*types.Recipe, error) {
	if err := validateRecipeFields(&req.Name, &req.Text, &req.CookingTime); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, newValidationError("image", "this field is required")
	}
	if err := s.validateAssociations(ctx, &req.Ingredients, &req.Tags); err != nil {
		return nil, err
	}

	image, err := saveRecipeImage(ctx, s.images, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		AuthorID:    authorID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := replaceIngredients(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return replaceTags(tx, recipe.ID, req.Tags)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	logging.Info().Uint("recipe_id", recipe.ID).Uint("author_id", authorID).Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID, authorID)
}

// UpdateRecipe applies the present fields of req. Ingredient and tag sets,
// when given, replace the stored sets entirely.
func (s *RecipeService) UpdateRecipe(ctx context.Context, viewerID, id uint, req *types.UpdateRecipeRequest) (*types.Recipe, error) {
	recipe, err := s.authorizedRecipe(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}

	if err := validateRecipeFields(req.Name, req.Text, req.CookingTime); err != nil {
		return nil, err
	}
	if err := s.validateAssociations(ctx, req.Ingredients, req.Tags); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}
	if req.Image != nil && *req.Image != recipe.Image {
		image, err := saveRecipeImage(ctx, s.images, *req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = image
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := replaceIngredients(tx, id, *req.Ingredients); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			if err := replaceTags(tx, id, *req.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	logging.Info().Uint("recipe_id", id).Msg("recipe updated")
	return s.GetRecipe(ctx, id, viewerID)
}

// DeleteRecipe removes the recipe and every row that references it
func (s *RecipeService) DeleteRecipe(ctx context.Context, viewerID, id uint) error {
	if _, err := s.authorizedRecipe(ctx, viewerID, id); err != nil {
		return err
	}

	// TODO: remove the stored image once ImageStore supports deletion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.AmountOfIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	logging.Info().Uint("recipe_id", id).Msg("recipe deleted")
	return nil
}

func (s *RecipeService) authorizedRecipe(ctx context.Context, viewerID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe.AuthorID != viewerID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

// validateRecipeFields checks the scalar fields that are present
func validateRecipeFields(name, text *string, cookingTime *int) error {
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return newValidationError("name", "this field is required")
		}
		if utf8.RuneCountInString(*name) > maxRecipeNameLength {
			return newValidationError("name", fmt.Sprintf("ensure this field has no more than %d characters", maxRecipeNameLength))
		}
	}
	if text != nil && strings.TrimSpace(*text) == "" {
		return newValidationError("text", "this field is required")
	}
	if cookingTime != nil && *cookingTime < 1 {
		return newValidationError("cooking_time", "cooking time must be at least one minute")
	}
	return nil
}

// validateAssociations checks the ingredient and tag lists that are present,
// in order: a non-empty ingredient list with positive amounts, unique
// ingredient ids, unique tag ids, existing tags and existing ingredients.
func (s *RecipeService) validateAssociations(ctx context.Context, ingredients *[]types.IngredientAmount, tags *[]uint) error {
	var ingredientIDs []uint
	if ingredients != nil {
		if len(*ingredients) == 0 {
			return newValidationError("ingredients", "at least one ingredient is required")
		}
		seen := make(map[uint]bool, len(*ingredients))
		for _, item := range *ingredients {
			if item.Amount < 1 {
				return newValidationError("ingredients", "amount must be at least 1")
			}
			if seen[item.ID] {
				return newValidationError("ingredients", "ingredients must not repeat")
			}
			seen[item.ID] = true
			ingredientIDs = append(ingredientIDs, item.ID)
		}
	}

	var tagIDs []uint
	if tags != nil {
		seen := make(map[uint]bool, len(*tags))
		for _, id := range *tags {
			if seen[id] {
				return newValidationError("tags", "tags must not repeat")
			}
			seen[id] = true
		}
		tagIDs = *tags
	}

	db := s.db.WithContext(ctx)
	if len(tagIDs) > 0 {
		var count int64
		if err := db.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check tags: %w", err)
		}
		if count != int64(len(tagIDs)) {
			return newValidationError("tags", "tag does not exist")
		}
	}

	if len(ingredientIDs) == 0 {
		return nil
	}
	var existing []uint
	if err := db.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("failed to check ingredients: %w", err)
	}
	found := make(map[uint]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ingredientIDs {
		if !found[id] {
			return fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
		}
	}
	return nil
}

func replaceIngredients(tx *gorm.DB, recipeID uint, items []types.IngredientAmount) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.AmountOfIngredient{}).Error; err != nil {
		return err
	}
	rows := make([]models.AmountOfIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.AmountOfIngredient{RecipeID: recipeID, IngredientID: item.ID, Amount: item.Amount})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func replaceTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}
