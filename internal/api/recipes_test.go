package api_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func recipePayload(t *testing.T, ingredient *models.Ingredient, tag *models.Tag) map[string]interface{} {
	return map[string]interface{}{
		"ingredients":  []map[string]interface{}{{"id": ingredient.ID, "amount": 200}},
		"tags":         []uint{tag.ID},
		"image":        testhelpers.TestImageDataURI(t, 32, 32),
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 15,
	}
}

func TestCreateAndGetRecipe(t *testing.T) {
	a := setupAPI(t)
	chef := testhelpers.CreateTestUser(t, a.db, "chef")
	flour := testhelpers.CreateTestIngredient(t, a.db, "flour", "g")
	breakfast := testhelpers.CreateTestTag(t, a.db, "Breakfast", "breakfast", models.ColorOrange)

	w := a.do(http.MethodPost, "/api/recipes/", a.token(chef), recipePayload(t, flour, breakfast))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created types.Recipe
	decode(t, w, &created)
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, "chef", created.Author.Username)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, 200, created.Ingredients[0].Amount)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)
	assert.True(t, strings.HasPrefix(created.Image, "/media/recipes/images/"))

	w = a.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d/", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched types.Recipe
	decode(t, w, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.False(t, fetched.IsFavorited)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/recipes/999/", "", nil).Code)
}

func TestCreateRecipeRejections(t *testing.T) {
	a := setupAPI(t)
	chef := testhelpers.CreateTestUser(t, a.db, "chef")
	flour := testhelpers.CreateTestIngredient(t, a.db, "flour", "g")
	breakfast := testhelpers.CreateTestTag(t, a.db, "Breakfast", "breakfast", models.ColorOrange)
	token := a.token(chef)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/recipes/", "", recipePayload(t, flour, breakfast)).Code)

	tests := []struct {
		name   string
		mutate func(p map[string]interface{})
		status int
	}{
		{"no ingredients", func(p map[string]interface{}) { p["ingredients"] = []map[string]interface{}{} }, http.StatusBadRequest},
		{"zero cooking time", func(p map[string]interface{}) { p["cooking_time"] = 0 }, http.StatusBadRequest},
		{"missing image", func(p map[string]interface{}) { delete(p, "image") }, http.StatusBadRequest},
		{"duplicate tags", func(p map[string]interface{}) { p["tags"] = []uint{breakfast.ID, breakfast.ID} }, http.StatusBadRequest},
		{"unknown tag", func(p map[string]interface{}) { p["tags"] = []uint{999} }, http.StatusBadRequest},
		{"unknown ingredient", func(p map[string]interface{}) {
			p["ingredients"] = []map[string]interface{}{{"id": 999, "amount": 1}}
		}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := recipePayload(t, flour, breakfast)
			tt.mutate(payload)
			w := a.do(http.MethodPost, "/api/recipes/", token, payload)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRecipeModificationIsAuthorOnly(t *testing.T) {
	a := setupAPI(t)
	chef := testhelpers.CreateTestUser(t, a.db, "chef")
	other := testhelpers.CreateTestUser(t, a.db, "other")
	flour := testhelpers.CreateTestIngredient(t, a.db, "flour", "g")
	recipe := testhelpers.CreateTestRecipe(t, a.db, chef, "Bread", map[*models.Ingredient]int{flour: 500})
	path := fmt.Sprintf("/api/recipes/%d/", recipe.ID)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPatch, path, a.token(other), map[string]string{"name": "Stolen"}).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, path, a.token(other), nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodDelete, path, "", nil).Code)

	w := a.do(http.MethodPatch, path, a.token(chef), map[string]string{"name": "Rye bread"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated types.Recipe
	decode(t, w, &updated)
	assert.Equal(t, "Rye bread", updated.Name)
	assert.Equal(t, 10, updated.CookingTime)
	require.Len(t, updated.Ingredients, 1)

	// PUT needs the whole payload
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, path, a.token(chef), map[string]string{"name": "Only name"}).Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, a.token(chef), nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, "", nil).Code)
}

func TestRelationToggles(t *testing.T) {
	a := setupAPI(t)
	chef := testhelpers.CreateTestUser(t, a.db, "chef")
	fan := testhelpers.CreateTestUser(t, a.db, "fan")
	flour := testhelpers.CreateTestIngredient(t, a.db, "flour", "g")
	recipe := testhelpers.CreateTestRecipe(t, a.db, chef, "Bread", map[*models.Ingredient]int{flour: 500})
	token := a.token(fan)

	for _, relation := range []string{"favorite", "shopping_cart"} {
		t.Run(relation, func(t *testing.T) {
			path := fmt.Sprintf("/api/recipes/%d/%s/", recipe.ID, relation)

			w := a.do(http.MethodPost, path, token, nil)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			var short types.ShortRecipe
			decode(t, w, &short)
			assert.Equal(t, recipe.ID, short.ID)
			assert.Equal(t, "Bread", short.Name)

			assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, path, token, nil).Code)
			assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, token, nil).Code)
			assert.Equal(t, http.StatusBadRequest, a.do(http.MethodDelete, path, token, nil).Code)
			assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, path, "", nil).Code)
			assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, fmt.Sprintf("/api/recipes/999/%s/", relation), token, nil).Code)
		})
	}
}

func TestRecipeFilters(t *testing.T) {
	a := setupAPI(t)
	chef := testhelpers.CreateTestUser(t, a.db, "chef")
	fan := testhelpers.CreateTestUser(t, a.db, "fan")
	flour := testhelpers.CreateTestIngredient(t, a.db, "flour", "g")
	breakfast := testhelpers.CreateTestTag(t, a.db, "Breakfast", "breakfast", models.ColorOrange)
	dinner := testhelpers.CreateTestTag(t, a.db, "Dinner", "dinner", models.ColorViolet)
	pancakes := testhelpers.CreateTestRecipe(t, a.db, chef, "Pancakes", map[*models.Ingredient]int{flour: 200}, breakfast)
	testhelpers.CreateTestRecipe(t, a.db, fan, "Stew", map[*models.Ingredient]int{flour: 20}, dinner)
	token := a.token(fan)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite/", pancakes.ID), token, nil).Code)

	names := func(path, token string) []string {
		w := a.do(http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var recipes []types.Recipe
		decode(t, w, &recipes)
		out := make([]string, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Pancakes", "Stew"}, names("/api/recipes/", ""))
	assert.Equal(t, []string{"Pancakes"}, names("/api/recipes/?tags=breakfast", ""))
	assert.ElementsMatch(t, []string{"Pancakes", "Stew"}, names("/api/recipes/?tags=breakfast&tags=dinner", ""))
	assert.Equal(t, []string{"Stew"}, names(fmt.Sprintf("/api/recipes/?author=%d", fan.ID), ""))
	assert.Equal(t, []string{"Pancakes"}, names("/api/recipes/?is_favorited=1", token))
	assert.Equal(t, []string{"Stew"}, names("/api/recipes/?is_favorited=0", token))
	assert.Empty(t, names("/api/recipes/?is_favorited=1", ""))

	w := a.do(http.MethodGet, "/api/recipes/?is_favorited=maybe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "is_favorited")
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/recipes/?author=abc", "", nil).Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	a := setupAPI(t)
	chef := testhelpers.CreateTestUser(t, a.db, "chef")
	flour := testhelpers.CreateTestIngredient(t, a.db, "flour", "g")
	sugar := testhelpers.CreateTestIngredient(t, a.db, "sugar", "g")
	bread := testhelpers.CreateTestRecipe(t, a.db, chef, "Bread", map[*models.Ingredient]int{flour: 200})
	cake := testhelpers.CreateTestRecipe(t, a.db, chef, "Cake", map[*models.Ingredient]int{flour: 300, sugar: 50})
	token := a.token(chef)

	for _, r := range []*models.Recipe{bread, cake} {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart/", r.ID), token, nil).Code)
	}

	w := a.do(http.MethodGet, "/api/recipes/download_shopping_cart/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="shopping_cart.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "flour (g) - 500\nsugar (g) - 50\n", w.Body.String())

	w = a.do(http.MethodGet, "/api/recipes/download_shopping_cart/?format=pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="shopping_cart.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/recipes/download_shopping_cart/?format=docx", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/recipes/download_shopping_cart/", "", nil).Code)
}

func TestCatalogEndpoints(t *testing.T) {
	a := setupAPI(t)
	testhelpers.CreateTestIngredient(t, a.db, "Flour", "g")
	testhelpers.CreateTestIngredient(t, a.db, "flax seeds", "g")
	testhelpers.CreateTestIngredient(t, a.db, "sugar", "g")
	tag := testhelpers.CreateTestTag(t, a.db, "Lunch", "lunch", models.ColorBlue)

	w := a.do(http.MethodGet, "/api/ingredients/?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []types.Ingredient
	decode(t, w, &ingredients)
	assert.Len(t, ingredients, 2)

	w = a.do(http.MethodGet, "/api/tags/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []types.Tag
	decode(t, w, &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, "#0076FF", tags[0].Color)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/tags/%d/", tag.ID), "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/tags/42/", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/ingredients/42/", "", nil).Code)
}
