package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: config.Test,
		ServerHost:  "localhost",
		ServerPort:  "0",
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.NewTestDB(t)

	srv := New(testConfig(), db, nil, testhelpers.NewMemoryImageStore())
	require.NotNil(t, srv)

	w := get(t, srv.Handler(), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = get(t, srv.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, srv.Handler(), "/api/tags/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestShutdownBeforeStart(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	srv := New(testConfig(), db, nil, testhelpers.NewMemoryImageStore())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}
