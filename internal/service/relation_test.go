package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRelationToggle(t *testing.T) {
	for _, rel := range []service.Relation{service.Favorites, service.ShoppingCart} {
		t.Run(rel.Name, func(t *testing.T) {
			db := testhelpers.NewTestDB(t)
			ctx := context.Background()
			svc := service.NewRelationService(db)
			recipes := service.NewRecipeService(db, testhelpers.NewMemoryImageStore())

			author := testhelpers.CreateTestUser(t, db, "chef")
			user := testhelpers.CreateTestUser(t, db, "fan")
			flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")
			recipe := testhelpers.CreateTestRecipe(t, db, author, "bread", map[*models.Ingredient]int{flour: 500})

			short, err := svc.Add(ctx, rel, user.ID, recipe.ID)
			require.NoError(t, err)
			assert.Equal(t, types.ShortRecipe{ID: recipe.ID, Name: "bread", Image: recipe.Image, CookingTime: 10}, *short)

			_, err = svc.Add(ctx, rel, user.ID, recipe.ID)
			assert.ErrorIs(t, err, service.ErrConflict)
			assert.EqualError(t, err, "recipe is already in "+rel.Label)

			view, err := recipes.GetRecipe(ctx, recipe.ID, user.ID)
			require.NoError(t, err)
			if rel.Name == service.Favorites.Name {
				assert.True(t, view.IsFavorited)
			} else {
				assert.True(t, view.IsInShoppingCart)
			}

			require.NoError(t, svc.Remove(ctx, rel, user.ID, recipe.ID))

			err = svc.Remove(ctx, rel, user.ID, recipe.ID)
			assert.ErrorIs(t, err, service.ErrConflict)
			assert.EqualError(t, err, "recipe is not in "+rel.Label)

			view, err = recipes.GetRecipe(ctx, recipe.ID, user.ID)
			require.NoError(t, err)
			assert.False(t, view.IsFavorited)
			assert.False(t, view.IsInShoppingCart)
		})
	}
}

func TestRelationUnknownRecipe(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	svc := service.NewRelationService(db)
	user := testhelpers.CreateTestUser(t, db, "fan")

	_, err := svc.Add(ctx, service.Favorites, user.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = svc.Remove(ctx, service.ShoppingCart, user.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRelationUniqueConstraint(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	author := testhelpers.CreateTestUser(t, db, "chef")
	flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "bread", map[*models.Ingredient]int{flour: 500})

	require.NoError(t, db.Create(&models.Favorite{UserID: author.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.Favorite{UserID: author.ID, RecipeID: recipe.ID}).Error
	assert.Error(t, err)
}
