package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipes-api/backend/internal/middleware"
	"github.com/pageza/recipes-api/backend/internal/service"
	"github.com/pageza/recipes-api/backend/internal/types"
)

// RecipeHandler serves the recipe endpoints
type RecipeHandler struct {
	recipeService service.IRecipeService
	writeLimiter  *middleware.RateLimiter
}

// NewRecipeHandler creates a RecipeHandler without rate limiting
func NewRecipeHandler(recipeService service.IRecipeService) *RecipeHandler {
	return NewRecipeHandlerWithRateLimit(recipeService, nil)
}

// NewRecipeHandlerWithRateLimit creates a RecipeHandler that limits the write
// endpoints with writeLimiter. A nil limiter disables rate limiting.
func NewRecipeHandlerWithRateLimit(recipeService service.IRecipeService, writeLimiter *middleware.RateLimiter) *RecipeHandler {
	RegisterValidations()
	return &RecipeHandler{
		recipeService: recipeService,
		writeLimiter:  writeLimiter,
	}
}

// RegisterRoutes mounts the recipe endpoints under /recipes on router
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipesPage)
		recipes.GET("/all", h.ListRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/comments", h.GetComments)

		recipes.POST("", h.limited(h.CreateRecipe)...)
		recipes.PUT("/:id", h.limited(h.UpdateRecipe)...)
		recipes.DELETE("/:id", h.limited(h.DeleteRecipe)...)
		recipes.POST("/:id/comments", h.limited(h.AddComment)...)
	}
}

func (h *RecipeHandler) limited(handler gin.HandlerFunc) []gin.HandlerFunc {
	if h.writeLimiter == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{h.writeLimiter.RateLimitMiddleware(), handler}
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id := c.Param("id")
	recipe, found, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("recipe with id: %s was not found", id)})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Recipe with id: %s has been deleted", id)})
}

// SearchRecipes matches recipes sharing any of the given tags or ingredients.
// Both parameters accept repeated and comma-separated values.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	tags, hasTags := queryList(c, "tags")
	ingredients, hasIngredients := queryList(c, "ingredients")

	switch {
	case hasTags && hasIngredients:
		c.JSON(http.StatusBadRequest, gin.H{"error": "search by either tags or ingredients, not both"})
	case hasTags:
		recipes, err := h.recipeService.FindRecipesByTags(c.Request.Context(), tags)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, recipes)
	case hasIngredients:
		recipes, err := h.recipeService.FindRecipesByIngredients(c.Request.Context(), ingredients)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, recipes)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "tags or ingredients query parameter is required"})
	}
}

func (h *RecipeHandler) ListRecipesPage(c *gin.Context) {
	var query types.ListRecipesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.recipeService.ListRecipesPage(c.Request.Context(), query.ToPageRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) AddComment(c *gin.Context) {
	var req types.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipeService.AddComment(c.Request.Context(), c.Param("id"), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) GetComments(c *gin.Context) {
	comments, err := h.recipeService.GetComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// queryList collects every value of key, splitting comma-separated entries.
// The second result reports whether the parameter was present at all.
func queryList(c *gin.Context, key string) ([]string, bool) {
	raw, ok := c.GetQueryArray(key)
	if !ok {
		return nil, false
	}
	values := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, v := range strings.Split(entry, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values, true
}

func respondBindError(c *gin.Context, err error) {
	body := gin.H{"error": "invalid request"}
	if details := validationDetails(err); details != nil {
		body["details"] = details
	} else {
		body["error"] = "invalid request: " + err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", middleware.GetRequestID(c),
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
