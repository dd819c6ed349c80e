package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pausrq/cucharita-api/internal/middleware"
	"github.com/pausrq/cucharita-api/internal/service"
	"github.com/pausrq/cucharita-api/internal/types"
)

// AuthHandler exposes registration, login, logout and profile endpoints.
type AuthHandler struct {
	auth    service.IAuthService
	logger  *zap.Logger
	devMode bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth service.IAuthService, logger *zap.Logger, devMode bool) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		logger:  logger,
		devMode: devMode,
	}
}

// RegisterRoutes mounts the auth routes on the given group.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.RequireAuth(validator), h.Logout)
		auth.GET("/me", middleware.RequireAuth(validator), h.Me)
		auth.PUT("/profile", middleware.RequireAuth(validator), h.UpdateProfile)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}

	user, profile, err := h.auth.CurrentUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"profile": profile,
	})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "User not authenticated"})
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	profile, err := h.auth.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}
