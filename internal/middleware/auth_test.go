package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pausrq/cucharita-api/internal/service"
	"github.com/pausrq/cucharita-api/internal/types"
)

type stubValidator struct {
	userID uuid.UUID
	err    error
}

func (v *stubValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &types.TokenClaims{UserID: v.userID}, nil
}

func authTestRouter(validator TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := RequireAuth(validator)
	if optional {
		mw = OptionalAuth(validator)
	}
	r.GET("/protected", mw, func(c *gin.Context) {
		if id, exists := c.Get(ContextUserID); exists {
			c.JSON(http.StatusOK, gin.H{"user_id": id.(uuid.UUID).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": ""})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		r := authTestRouter(&stubValidator{userID: userID}, false)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		r := authTestRouter(&stubValidator{userID: userID}, false)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "No token provided")
	})

	t.Run("malformed header", func(t *testing.T) {
		r := authTestRouter(&stubValidator{userID: userID}, false)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid authorization header format")
	})

	t.Run("rejected token", func(t *testing.T) {
		r := authTestRouter(&stubValidator{err: service.ErrInvalidToken}, false)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer revoked")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("validator backend failure", func(t *testing.T) {
		r := authTestRouter(&stubValidator{
			err: fmt.Errorf("%w: redis down", service.ErrAuthProvider),
		}, false)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer anything")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication error")
	})
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("anonymous passes through", func(t *testing.T) {
		r := authTestRouter(&stubValidator{userID: userID}, true)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":""`)
	})

	t.Run("credential resolved when present", func(t *testing.T) {
		r := authTestRouter(&stubValidator{userID: userID}, true)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("invalid credential still rejected", func(t *testing.T) {
		r := authTestRouter(&stubValidator{err: service.ErrInvalidToken}, true)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
