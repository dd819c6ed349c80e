package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pausrq/cucharita-api/internal/models"
	"github.com/pausrq/cucharita-api/internal/types"
)

// ObjectStore is the capability the core needs from an object-storage
// service. Implementations own the key/URL mapping; the core never sees
// SDK types.
type ObjectStore interface {
	// Upload stores data under key and returns its public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Remove deletes the blob a previously returned URL points at.
	Remove(ctx context.Context, url string) error
}

// IAuthService is the identity provider boundary.
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, *models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
}

// IRecipeService owns recipe CRUD with ownership-scoped authorization.
type IRecipeService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, scope ListScope) ([]models.Recipe, error)
	Update(ctx context.Context, id, callerID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	Delete(ctx context.Context, id, callerID uuid.UUID) error
}

// IFavoriteService owns the (user, recipe) favorites relation.
type IFavoriteService interface {
	Toggle(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, bool, error)
	FavoriteSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	IsFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

// IImageService attaches at most one stored image to a recipe.
type IImageService interface {
	Attach(ctx context.Context, recipeID, callerID uuid.UUID, data []byte, contentType, filename string) (*models.Recipe, error)
}
