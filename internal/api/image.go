package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pausrq/cucharita-api/internal/middleware"
	"github.com/pausrq/cucharita-api/internal/service"
	"github.com/pausrq/cucharita-api/internal/types"
)

// ImageHandler exposes the recipe image upload endpoint.
type ImageHandler struct {
	images    service.IImageService
	favorites service.IFavoriteService
	maxBytes  int64
	logger    *zap.Logger
	devMode   bool
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images service.IImageService, favorites service.IFavoriteService, maxBytes int64, logger *zap.Logger, devMode bool) *ImageHandler {
	return &ImageHandler{
		images:    images,
		favorites: favorites,
		maxBytes:  maxBytes,
		logger:    logger,
		devMode:   devMode,
	}
}

// RegisterRoutes mounts the upload route. The limiter may be nil when no
// Redis backend is configured.
func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator, limiter *middleware.RateLimiter) {
	handlers := []gin.HandlerFunc{middleware.RequireAuth(validator)}
	if limiter != nil {
		handlers = append(handlers, limiter.Middleware())
	}
	handlers = append(handlers, h.Upload)
	router.POST("/recipes/:id/image", handlers...)
}

func (h *ImageHandler) Upload(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}
	id, ok := recipeParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "No image file provided"})
		return
	}
	if fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Image exceeds the maximum upload size"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	recipe, err := h.images.Attach(c.Request.Context(), id, caller, data, contentType, fileHeader.Filename)
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
		"message":   "Image uploaded successfully",
		"recipe":    types.RecipeResponse{Recipe: *recipe, IsFavorite: fav},
		"image_url": recipe.ImageURL,
	})
}
