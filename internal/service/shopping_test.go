package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestShoppingListAggregation(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	relations := service.NewRelationService(db)
	svc := service.NewShoppingService(db)

	author := testhelpers.CreateTestUser(t, db, "chef")
	buyer := testhelpers.CreateTestUser(t, db, "buyer")
	flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")
	sugar := testhelpers.CreateTestIngredient(t, db, "sugar", "g")
	salt := testhelpers.CreateTestIngredient(t, db, "salt", "g")

	a := testhelpers.CreateTestRecipe(t, db, author, "a", map[*models.Ingredient]int{flour: 200})
	b := testhelpers.CreateTestRecipe(t, db, author, "b", map[*models.Ingredient]int{flour: 300, sugar: 50})
	// not in the cart
	testhelpers.CreateTestRecipe(t, db, author, "c", map[*models.Ingredient]int{salt: 5, flour: 1000})

	_, err := relations.Add(ctx, service.ShoppingCart, buyer.ID, a.ID)
	require.NoError(t, err)
	_, err = relations.Add(ctx, service.ShoppingCart, buyer.ID, b.ID)
	require.NoError(t, err)

	items, err := svc.Items(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Total: 500},
		{Name: "sugar", MeasurementUnit: "g", Total: 50},
	}, items)

	list, err := svc.Export(ctx, buyer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "shopping_cart.txt", list.Filename)
	assert.Equal(t, "flour (g) - 500\nsugar (g) - 50\n", string(list.Body))
}

func TestShoppingListKeepsUnitsApart(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	relations := service.NewRelationService(db)

	user := testhelpers.CreateTestUser(t, db, "chef")
	milkMl := testhelpers.CreateTestIngredient(t, db, "milk", "ml")
	milkCup := testhelpers.CreateTestIngredient(t, db, "milk", "cup")
	apple := testhelpers.CreateTestIngredient(t, db, "apple", "pcs")

	r1 := testhelpers.CreateTestRecipe(t, db, user, "r1", map[*models.Ingredient]int{milkMl: 100, apple: 2})
	r2 := testhelpers.CreateTestRecipe(t, db, user, "r2", map[*models.Ingredient]int{milkCup: 1, milkMl: 50})
	for _, r := range []*models.Recipe{r1, r2} {
		_, err := relations.Add(ctx, service.ShoppingCart, user.ID, r.ID)
		require.NoError(t, err)
	}

	items, err := service.NewShoppingService(db).Items(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "apple (pcs) - 2\nmilk (cup) - 1\nmilk (ml) - 150\n", service.RenderShoppingList(items))
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateTestUser(t, db, "chef")
	svc := service.NewShoppingService(db)

	list, err := svc.Export(context.Background(), user.ID, service.FormatText)
	require.NoError(t, err)
	assert.Empty(t, list.Body)

	pdf, err := svc.Export(context.Background(), user.ID, service.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "shopping_cart.pdf", pdf.Filename)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, bytes.HasPrefix(pdf.Body, []byte("%PDF-")))
}

func TestShoppingListRejectsUnknownFormat(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user := testhelpers.CreateTestUser(t, db, "chef")

	_, err := service.NewShoppingService(db).Export(context.Background(), user.ID, "docx")
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRenderShoppingListPDF(t *testing.T) {
	body, err := service.RenderShoppingListPDF([]types.ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Total: 500},
		{Name: "crème fraîche", MeasurementUnit: "g", Total: 20},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	assert.Greater(t, len(body), 100)
}
