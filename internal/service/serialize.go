package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

func toTag(t models.Tag) types.Tag {
	return types.Tag{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func toIngredient(i models.Ingredient) types.Ingredient {
	return types.Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func toUser(u models.User, subscribed bool) types.User {
	return types.User{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func toShortRecipe(r models.Recipe) types.ShortRecipe {
	return types.ShortRecipe{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// subscribedAuthors reports which of authorIDs the viewer follows. Anonymous
// viewers (id 0) follow nobody.
func subscribedAuthors(db *gorm.DB, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	if viewerID == 0 || len(authorIDs) == 0 {
		return map[uint]bool{}, nil
	}
	var ids []uint
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func recipeRelationSet(db *gorm.DB, model interface{}, viewerID uint, recipeIDs []uint) (map[uint]bool, error) {
	if viewerID == 0 || len(recipeIDs) == 0 {
		return map[uint]bool{}, nil
	}
	var ids []uint
	err := db.Model(model).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// preloadRecipe loads everything the full representation needs
func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("amount_of_ingredients.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("Tags.Tag")
}

// representRecipes converts preloaded recipes into their public form with
// the viewer-relative flags computed in three batched queries.
func representRecipes(ctx context.Context, db *gorm.DB, recipes []models.Recipe, viewerID uint) ([]types.Recipe, error) {
	db = db.WithContext(ctx)

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := recipeRelationSet(db, &models.Favorite{}, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := recipeRelationSet(db, &models.ShoppingCart{}, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := subscribedAuthors(db, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]types.Recipe, 0, len(recipes))
	for _, r := range recipes {
		tags := make([]types.Tag, 0, len(r.Tags))
		for _, rt := range r.Tags {
			tags = append(tags, toTag(rt.Tag))
		}
		ingredients := make([]types.RecipeIngredient, 0, len(r.Ingredients))
		for _, a := range r.Ingredients {
			ingredients = append(ingredients, types.RecipeIngredient{
				ID:              a.Ingredient.ID,
				Name:            a.Ingredient.Name,
				MeasurementUnit: a.Ingredient.MeasurementUnit,
				Amount:          a.Amount,
			})
		}
		out = append(out, types.Recipe{
			ID:               r.ID,
			Tags:             tags,
			Author:           toUser(r.Author, subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}
