package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func setupAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)

	router := gin.New()
	api.RegisterRoutes(router.Group("/api"), &api.Dependencies{
		Auth:          auth,
		Users:         service.NewUserService(db),
		Subscriptions: service.NewSubscriptionService(db),
		Tags:          service.NewTagService(db),
		Ingredients:   service.NewIngredientService(db),
		Recipes:       service.NewRecipeService(db, testhelpers.NewMemoryImageStore()),
		Relations:     service.NewRelationService(db),
		Shopping:      service.NewShoppingService(db),
	})
	return &testAPI{t: t, db: db, router: router, auth: auth}
}

func (a *testAPI) token(user *models.User) string {
	token, err := a.auth.GenerateToken(user)
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
