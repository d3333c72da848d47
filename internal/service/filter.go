package service

import (
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ParseFilterBool parses a boolean query value. Accepted forms are 1, true,
// 0 and false; an empty value means the filter is absent.
func ParseFilterBool(field, value string) (*bool, error) {
	var b bool
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return nil, nil
	case "1", "true":
		b = true
	case "0", "false":
		b = false
	default:
		return nil, newValidationError(field, "must be one of 1, true, 0, false")
	}
	return &b, nil
}

// applyRecipeFilter narrows a recipes query. Multiple tag slugs match any
// of them. Relation filters are relative to the viewer; an anonymous viewer
// (id 0) has no relation rows, so true matches nothing and false everything.
func applyRecipeFilter(db, query *gorm.DB, f types.RecipeFilter, viewerID uint) *gorm.DB {
	if len(f.Tags) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}

	query = applyRelationFilter(db, query, &models.Favorite{}, f.IsFavorited, viewerID)
	query = applyRelationFilter(db, query, &models.ShoppingCart{}, f.IsInShoppingCart, viewerID)
	return query
}

func applyRelationFilter(db, query *gorm.DB, model interface{}, want *bool, viewerID uint) *gorm.DB {
	if want == nil {
		return query
	}
	if viewerID == 0 {
		if *want {
			return query.Where("1 = 0")
		}
		return query
	}

	related := db.Model(model).Select("recipe_id").Where("user_id = ?", viewerID)
	if *want {
		return query.Where("recipes.id IN (?)", related)
	}
	return query.Where("recipes.id NOT IN (?)", related)
}
