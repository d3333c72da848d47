package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the services the HTTP handlers are built on. Nil rate
// limiters disable limiting.
type Dependencies struct {
	Auth          service.IAuthService
	Users         service.IUserService
	Subscriptions service.ISubscriptionService
	Tags          service.ITagService
	Ingredients   service.IIngredientService
	Recipes       service.IRecipeService
	Relations     service.IRelationService
	Shopping      service.IShoppingService

	RecipeCreateLimiter *middleware.RateLimiter
	RecipeUpdateLimiter *middleware.RateLimiter
}

// RegisterRoutes mounts every resource under group
func RegisterRoutes(group *gin.RouterGroup, deps *Dependencies) {
	NewAuthHandler(deps.Auth).RegisterRoutes(group)
	NewUserHandler(deps.Users, deps.Subscriptions, deps.Auth).RegisterRoutes(group)
	NewTagHandler(deps.Tags).RegisterRoutes(group)
	NewIngredientHandler(deps.Ingredients).RegisterRoutes(group)
	NewRecipeHandler(deps.Recipes, deps.Relations, deps.Shopping, deps.Auth, deps.RecipeCreateLimiter, deps.RecipeUpdateLimiter).RegisterRoutes(group)
}

// respondError maps service errors onto HTTP responses
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to log in with provided credentials"})
	default:
		_ = c.Error(err)
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "must be a non-negative integer", "field": name})
		return 0, false
	}
	return n, true
}
