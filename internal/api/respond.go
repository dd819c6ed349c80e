package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pausrq/cucharita-api/internal/middleware"
	"github.com/pausrq/cucharita-api/internal/models"
	"github.com/pausrq/cucharita-api/internal/service"
	"github.com/pausrq/cucharita-api/internal/types"
)

// errorBody is the wire shape of every failure: a single human-readable
// message, plus detail in development mode only.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondError maps a service error to its HTTP status. Internal faults
// are logged and returned as a generic message unless devMode is set.
func respondError(c *gin.Context, logger *zap.Logger, devMode bool, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		// Token parse detail stays server-side.
		c.JSON(http.StatusUnauthorized, errorBody{Error: service.ErrInvalidToken.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrAuthProvider):
		logger.Error("auth provider failure", zap.Error(err))
		respondInternal(c, devMode, "Authentication error", err)
	case errors.Is(err, service.ErrStorageProvider):
		logger.Error("storage provider failure", zap.Error(err))
		respondInternal(c, devMode, "Storage error", err)
	default:
		logger.Error("unexpected error", zap.Error(err))
		respondInternal(c, devMode, "Internal server error", err)
	}
}

func respondInternal(c *gin.Context, devMode bool, message string, err error) {
	body := errorBody{Error: message}
	if devMode {
		body.Details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// callerID returns the authenticated caller set by the auth middleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// recipeResponses annotates a batch of recipes with the viewer's favorite
// status. An anonymous viewer gets every flag false.
func recipeResponses(c *gin.Context, favorites service.IFavoriteService, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	out := make([]types.RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = types.RecipeResponse{Recipe: r}
	}

	viewer, ok := callerID(c)
	if !ok {
		return out, nil
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	set, err := favorites.FavoriteSet(c.Request.Context(), viewer, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].IsFavorite = set[out[i].ID]
	}
	return out, nil
}
