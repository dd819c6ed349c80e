package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pausrq/cucharita-api/internal/middleware"
	"github.com/pausrq/cucharita-api/internal/service"
	"github.com/pausrq/cucharita-api/internal/types"
)

// RecipeHandler exposes the recipe CRUD, listing and favorites endpoints.
type RecipeHandler struct {
	recipes   service.IRecipeService
	favorites service.IFavoriteService
	logger    *zap.Logger
	devMode   bool
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes service.IRecipeService, favorites service.IFavoriteService, logger *zap.Logger, devMode bool) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		favorites: favorites,
		logger:    logger,
		devMode:   devMode,
	}
}

// RegisterRoutes mounts the recipe routes on the given group. Listing and
// reads are public with optional annotation; mutation requires auth.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuth(validator), h.List)
		recipes.GET("/my-recipes", middleware.RequireAuth(validator), h.MyRecipes)
		recipes.GET("/favorites", middleware.RequireAuth(validator), h.Favorites)
		recipes.GET("/search", middleware.OptionalAuth(validator), h.Search)
		recipes.GET("/:id", middleware.OptionalAuth(validator), h.Get)
		recipes.POST("", middleware.RequireAuth(validator), h.Create)
		recipes.PUT("/:id", middleware.RequireAuth(validator), h.Update)
		recipes.PATCH("/:id/favorite", middleware.RequireAuth(validator), h.ToggleFavorite)
		recipes.DELETE("/:id", middleware.RequireAuth(validator), h.Delete)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	h.list(c, service.ScopeAll())
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}
	h.list(c, service.ScopeOwnedBy(id))
}

func (h *RecipeHandler) Favorites(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}
	h.list(c, service.ScopeFavoritesOf(id))
}

func (h *RecipeHandler) Search(c *gin.Context) {
	h.list(c, service.ScopeSearch(c.Query("query")))
}

func (h *RecipeHandler) list(c *gin.Context, scope service.ListScope) {
	recipes, err := h.recipes.List(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	annotated, err := recipeResponses(c, h.favorites, recipes)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": annotated})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := recipeParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	resp := types.RecipeResponse{Recipe: *recipe}
	if viewer, ok := callerID(c); ok {
		fav, err := h.favorites.IsFavorite(c.Request.Context(), viewer, id)
		if err != nil {
			respondError(c, h.logger, h.devMode, err)
			return
		}
		resp.IsFavorite = fav
	}
	c.JSON(http.StatusOK, gin.H{"recipe": resp})
}

func (h *RecipeHandler) Create(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), owner, &req)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	// A freshly created recipe is nobody's favorite yet.
	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"recipe":  types.RecipeResponse{Recipe: *recipe},
	})
}

func (h *RecipeHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}
	id, ok := recipeParam(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, caller, &req)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	fav, err := h.favorites.IsFavorite(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"recipe":  types.RecipeResponse{Recipe: *recipe, IsFavorite: fav},
	})
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}
	id, ok := recipeParam(c)
	if !ok {
		return
	}

	recipe, isFavorite, err := h.favorites.Toggle(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite status updated",
		"recipe":  types.RecipeResponse{Recipe: *recipe, IsFavorite: isFavorite},
	})
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}
	id, ok := recipeParam(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, caller); err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

func recipeParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}
