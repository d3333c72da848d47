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

func ingredientNames(items []types.Ingredient) []string {
	names := make([]string, 0, len(items))
	for _, i := range items {
		names = append(names, i.Name)
	}
	return names
}

func TestSearchIngredients(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	svc := service.NewIngredientService(db)

	for _, name := range []string{"Sugar", "salt", "sugar syrup", "brown sugar", "50% cream", "500g cream", "s_pice", "Мука", "мёд"} {
		testhelpers.CreateTestIngredient(t, db, name, "g")
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"Sugar", "salt", "sugar syrup", "brown sugar", "50% cream", "500g cream", "s_pice", "Мука", "мёд"}},
		{"su", []string{"Sugar", "sugar syrup"}},
		{"SUGAR ", []string{"sugar syrup"}},
		{"50%", []string{"50% cream"}},
		{"s_", []string{"s_pice"}},
		{"pepper", []string{}},
		{"Мук", []string{"Мука"}},
		{"мук", []string{"Мука"}},
		{"М", []string{"Мука", "мёд"}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := svc.SearchIngredients(ctx, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ingredientNames(got))
		})
	}
}

func TestGetIngredientAndTag(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")
	tag := testhelpers.CreateTestTag(t, db, "Lunch", "lunch", models.ColorOrange)

	got, err := service.NewIngredientService(db).GetIngredient(ctx, flour.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Ingredient{ID: flour.ID, Name: "flour", MeasurementUnit: "g"}, *got)

	_, err = service.NewIngredientService(db).GetIngredient(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	tags := service.NewTagService(db)
	gotTag, err := tags.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "#FFCE26", gotTag.Color)

	_, err = tags.GetTag(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	list, err := tags.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLoadIngredients(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	svc := service.NewIngredientService(db)
	testhelpers.CreateTestIngredient(t, db, "flour", "g")

	created, err := svc.LoadIngredients(ctx, []types.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "kg"},
		{Name: " milk ", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	all, err := svc.SearchIngredients(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"flour", "flour", "milk"}, ingredientNames(all))

	_, err = svc.LoadIngredients(ctx, []types.Ingredient{{Name: "", MeasurementUnit: "g"}})
	assertValidation(t, err, "name")
}

func TestParseFilterBool(t *testing.T) {
	for value, want := range map[string]bool{"1": true, "true": true, "True": true, "0": false, "false": false} {
		got, err := service.ParseFilterBool("is_favorited", value)
		require.NoError(t, err, value)
		require.NotNil(t, got, value)
		assert.Equal(t, want, *got, value)
	}

	got, err := service.ParseFilterBool("is_favorited", "")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = service.ParseFilterBool("is_favorited", "yes")
	assertValidation(t, err, "is_favorited")
}
