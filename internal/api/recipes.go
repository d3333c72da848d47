package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService   service.IRecipeService
	relationService service.IRelationService
	shoppingService service.IShoppingService
	authService     service.IAuthService
	createLimiter   *middleware.RateLimiter
	updateLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	relationService service.IRelationService,
	shoppingService service.IShoppingService,
	authService service.IAuthService,
	createLimiter, updateLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		relationService: relationService,
		shoppingService: shoppingService,
		authService:     authService,
		createLimiter:   createLimiter,
		updateLimiter:   updateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuth(h.authService)
	create := h.createLimiter.RateLimitMiddleware()
	modify := h.updateLimiter.PerRecipeRateLimitMiddleware()

	recipes := router.Group("/recipes")
	{
		recipes.GET("/", optional, h.ListRecipes)
		recipes.POST("/", auth, create, h.CreateRecipe)
		recipes.GET("/download_shopping_cart/", auth, h.DownloadShoppingCart)
		recipes.GET("/:id/", optional, h.GetRecipe)
		recipes.PUT("/:id/", auth, modify, h.ReplaceRecipe)
		recipes.PATCH("/:id/", auth, modify, h.UpdateRecipe)
		recipes.DELETE("/:id/", auth, modify, h.DeleteRecipe)
		recipes.POST("/:id/favorite/", auth, h.addRelation(service.Favorites))
		recipes.DELETE("/:id/favorite/", auth, h.removeRelation(service.Favorites))
		recipes.POST("/:id/shopping_cart/", auth, h.addRelation(service.ShoppingCart))
		recipes.DELETE("/:id/shopping_cart/", auth, h.removeRelation(service.ShoppingCart))
	}
}

// parseRecipeFilter reads ?tags=&author=&is_favorited=&is_in_shopping_cart=
func parseRecipeFilter(c *gin.Context) (types.RecipeFilter, error) {
	filter := types.RecipeFilter{Tags: c.QueryArray("tags")}

	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, &service.ValidationError{Field: "author", Message: "must be a user id"}
		}
		author := uint(id)
		filter.AuthorID = &author
	}

	var err error
	if filter.IsFavorited, err = service.ParseFilterBool("is_favorited", c.Query("is_favorited")); err != nil {
		return filter, err
	}
	if filter.IsInShoppingCart, err = service.ParseFilterBool("is_in_shopping_cart", c.Query("is_in_shopping_cart")); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := parseRecipeFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), filter, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// ReplaceRecipe handles PUT, which requires the complete payload
func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	update := req.AsUpdate()
	h.update(c, id, &update)
}

// UpdateRecipe handles PATCH; absent fields keep their value
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.update(c, id, &req)
}

func (h *RecipeHandler) update(c *gin.Context, id uint, req *types.UpdateRecipeRequest) {
	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addRelation(rel service.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		short, err := h.relationService.Add(c.Request.Context(), rel, middleware.CurrentUserID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

func (h *RecipeHandler) removeRelation(rel service.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := h.relationService.Remove(c.Request.Context(), rel, middleware.CurrentUserID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart sends the aggregated cart as an attachment,
// plain text by default or PDF with ?format=pdf.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	list, err := h.shoppingService.Export(c.Request.Context(), middleware.CurrentUserID(c), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+list.Filename+`"`)
	c.Data(http.StatusOK, list.ContentType, list.Body)
}
