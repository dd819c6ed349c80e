package types

import "github.com/pausrq/cucharita-api/internal/models"

// RecipeResponse is a recipe as seen by one caller: the stored row plus
// that caller's favorite status. The flag is never persisted on the recipe.
type RecipeResponse struct {
	models.Recipe
	IsFavorite bool `json:"is_favorite"`
}
