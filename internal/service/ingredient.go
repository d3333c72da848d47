package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// SearchIngredients returns ingredients whose name starts with prefix,
// ignoring case. An empty prefix returns all ingredients.
func (s *IngredientService) SearchIngredients(ctx context.Context, prefix string) ([]types.Ingredient, error) {
	db := s.db.WithContext(ctx)
	lowered := strings.ToLower(prefix)

	query := db.Order("id")
	// sqlite's LOWER folds ASCII only, so non-postgres stores filter in Go
	foldInDB := db.Dialector.Name() == "postgres"
	if prefix != "" && foldInDB {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(lowered)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	out := make([]types.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		if prefix != "" && !foldInDB && !strings.HasPrefix(strings.ToLower(i.Name), lowered) {
			continue
		}
		out = append(out, toIngredient(i))
	}
	return out, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, id uint) (*types.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ingredient")
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	i := toIngredient(ingredient)
	return &i, nil
}

// LoadIngredients inserts ingredients that are not yet present, matching on
// name and measurement unit. It returns the number of rows created.
func (s *IngredientService) LoadIngredients(ctx context.Context, items []types.Ingredient) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			name := strings.TrimSpace(item.Name)
			unit := strings.TrimSpace(item.MeasurementUnit)
			if name == "" || unit == "" {
				return newValidationError("name", fmt.Sprintf("ingredient %q has an empty name or unit", item.Name))
			}

			var count int64
			if err := tx.Model(&models.Ingredient{}).
				Where("name = ? AND measurement_unit = ?", name, unit).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&models.Ingredient{Name: name, MeasurementUnit: unit}).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load ingredients: %w", err)
	}
	return created, nil
}
