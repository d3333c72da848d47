package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func mockedRouter(auth *mocks.MockAuthService, recipes *mocks.MockRecipeService, shopping *mocks.MockShoppingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.RegisterRoutes(router.Group("/api"), &api.Dependencies{
		Auth:     auth,
		Recipes:  recipes,
		Shopping: shopping,
	})
	return router
}

func request(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("recipe %w", service.ErrNotFound), http.StatusNotFound, `{"error":"recipe not found"}`},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, `{"error":"you do not have permission to perform this action"}`},
		{"validation", &service.ValidationError{Field: "name", Message: "this field is required"}, http.StatusBadRequest, `{"error":"this field is required","field":"name"}`},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes := new(mocks.MockRecipeService)
			recipes.On("GetRecipe", mock.Anything, uint(5), uint(0)).Return(nil, tt.err)

			w := request(mockedRouter(new(mocks.MockAuthService), recipes, nil), http.MethodGet, "/api/recipes/5/", "")
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			recipes.AssertExpectations(t)
		})
	}
}

func TestOptionalAuthPassesViewer(t *testing.T) {
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: 7, Username: "chef"}, nil)
	recipes := new(mocks.MockRecipeService)
	recipes.On("ListRecipes", mock.Anything, mock.AnythingOfType("types.RecipeFilter"), uint(7)).Return([]types.Recipe{}, nil)

	w := request(mockedRouter(auth, recipes, nil), http.MethodGet, "/api/recipes/?tags=lunch", "good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	filter := recipes.Calls[0].Arguments.Get(1).(types.RecipeFilter)
	assert.Equal(t, []string{"lunch"}, filter.Tags)
	assert.Nil(t, filter.IsFavorited)
	auth.AssertExpectations(t)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "revoked").Return(nil, service.ErrTokenRevoked)
	recipes := new(mocks.MockRecipeService)

	w := request(mockedRouter(auth, recipes, nil), http.MethodGet, "/api/recipes/", "revoked")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	recipes.AssertNotCalled(t, "ListRecipes", mock.Anything, mock.Anything, mock.Anything)
}

func TestDownloadPassesFormat(t *testing.T) {
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: 3}, nil)
	shopping := new(mocks.MockShoppingService)
	shopping.On("Export", mock.Anything, uint(3), "pdf").Return(&service.ShoppingList{
		Filename:    "shopping_cart.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.3"),
	}, nil)

	w := request(mockedRouter(auth, nil, shopping), http.MethodGet, "/api/recipes/download_shopping_cart/?format=pdf", "good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="shopping_cart.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())
	shopping.AssertExpectations(t)
}
