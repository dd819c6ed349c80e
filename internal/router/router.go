package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pausrq/cucharita-api/config"
	"github.com/pausrq/cucharita-api/internal/api"
	"github.com/pausrq/cucharita-api/internal/middleware"
	"github.com/pausrq/cucharita-api/internal/service"
)

// uploadRateLimit bounds image uploads per user. Uploads are the only
// write amplified by object storage, so the limiter applies there only.
var uploadRateLimit = middleware.RateLimitConfig{
	Window:    time.Minute,
	Limit:     10,
	KeyPrefix: "ratelimit:upload",
}

// Setup wires services and handlers into the application routes.
// redisClient may be nil; store may be a disabled adapter.
func Setup(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store service.ObjectStore, logger *zap.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret, logger)
	recipeService := service.NewRecipeService(db, store, logger)
	favoriteService := service.NewFavoriteService(db)
	imageService := service.NewImageService(db, store, cfg.MaxUploadBytes, logger)

	authHandler := api.NewAuthHandler(authService, logger, cfg.IsDevelopment())
	recipeHandler := api.NewRecipeHandler(recipeService, favoriteService, logger, cfg.IsDevelopment())
	imageHandler := api.NewImageHandler(imageService, favoriteService, cfg.MaxUploadBytes, logger, cfg.IsDevelopment())

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, uploadRateLimit)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Cucharita API - Recipe Management System",
			"version": "1.0.0",
			"endpoints": gin.H{
				"auth":    "/api/auth",
				"recipes": "/api/recipes",
			},
		})
	})

	apiGroup := router.Group("/api")
	authHandler.RegisterRoutes(apiGroup, authService)
	recipeHandler.RegisterRoutes(apiGroup, authService)
	imageHandler.RegisterRoutes(apiGroup, authService, limiter)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
