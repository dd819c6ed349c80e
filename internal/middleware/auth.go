package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pausrq/cucharita-api/internal/service"
	"github.com/pausrq/cucharita-api/internal/types"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "user_id"
	ContextToken  = "token"
)

// TokenValidator is an interface for validating bearer tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// RequireAuth validates the bearer token and stores the caller identity in
// the context. A missing or malformed header is rejected before the
// validator runs.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Abort()
			return
		}
		if !resolveToken(c, validator, token) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a credential is present
// and lets anonymous requests through untouched. A credential that is
// present but invalid is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			c.Abort()
			return
		}
		if !resolveToken(c, validator, token) {
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		return "", false
	}
	return parts[1], true
}

func resolveToken(c *gin.Context, validator TokenValidator, token string) bool {
	claims, err := validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrAuthProvider) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication error"})
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		}
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextToken, token)
	return true
}
