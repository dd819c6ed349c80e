package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pausrq/cucharita-api/internal/models"
	"github.com/pausrq/cucharita-api/internal/types"
)

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeOwnedBy
	scopeFavoritesOf
	scopeSearch
)

// ListScope selects which recipes a listing returns. All scopes share one
// query path and the same ordering: created_at descending, id descending
// on ties.
type ListScope struct {
	kind   scopeKind
	userID uuid.UUID
	query  string
}

// ScopeAll lists every recipe.
func ScopeAll() ListScope { return ListScope{kind: scopeAll} }

// ScopeOwnedBy lists recipes created by the given user.
func ScopeOwnedBy(userID uuid.UUID) ListScope {
	return ListScope{kind: scopeOwnedBy, userID: userID}
}

// ScopeFavoritesOf lists recipes the given user has favorited.
func ScopeFavoritesOf(userID uuid.UUID) ListScope {
	return ListScope{kind: scopeFavoritesOf, userID: userID}
}

// ScopeSearch lists recipes whose title or description contains the query,
// case-insensitively.
func ScopeSearch(query string) ListScope {
	return ListScope{kind: scopeSearch, query: query}
}

// RecipeService handles recipe CRUD. Mutation is restricted to the owner;
// reads are public.
type RecipeService struct {
	db     *gorm.DB
	store  ObjectStore
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB, store ObjectStore, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:     db,
		store:  store,
		logger: logger,
	}
}

// Create validates and stores a new recipe owned by ownerID.
func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, NewValidationError("Title and description are required")
	}

	recipe := models.Recipe{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Ingredients: normalizeList(req.Ingredients),
		Steps:       normalizeList(req.Steps),
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Get retrieves a recipe by ID. Any caller may read any recipe.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes for the given scope, newest first.
func (s *RecipeService) List(ctx context.Context, scope ListScope) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	switch scope.kind {
	case scopeAll:
	case scopeOwnedBy:
		query = query.Where("user_id = ?", scope.userID)
	case scopeFavoritesOf:
		query = query.
			Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
			Where("recipe_favorites.user_id = ?", scope.userID)
	case scopeSearch:
		term := strings.TrimSpace(scope.query)
		if term == "" {
			return nil, NewValidationError("Search query is required")
		}
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC, id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Update applies the provided fields to a recipe the caller owns. Unset
// fields keep their prior value; owner and id never change.
func (s *RecipeService) Update(ctx context.Context, id, callerID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != callerID {
		return nil, fmt.Errorf("%w to update this recipe", ErrForbidden)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, NewValidationError("Title cannot be empty")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, NewValidationError("Description cannot be empty")
		}
		updates["description"] = description
	}
	if req.Ingredients != nil {
		updates["ingredients"] = normalizeList(*req.Ingredients)
	}
	if req.Steps != nil {
		updates["steps"] = normalizeList(*req.Steps)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(recipe).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a recipe the caller owns, cascading to its favorite pairs
// and its stored image. The image and favorite cleanup steps are
// best-effort: their failure is logged and the deletion still commits.
func (s *RecipeService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.UserID != callerID {
		return fmt.Errorf("%w to delete this recipe", ErrForbidden)
	}

	if recipe.ImageURL != "" && s.store != nil {
		if err := s.store.Remove(ctx, recipe.ImageURL); err != nil {
			s.logger.Warn("failed to delete recipe image",
				zap.String("recipe_id", id.String()),
				zap.String("image_url", recipe.ImageURL),
				zap.Error(err))
		}
	}

	if err := s.db.WithContext(ctx).
		Where("recipe_id = ?", id).
		Delete(&models.RecipeFavorite{}).Error; err != nil {
		s.logger.Warn("failed to cascade favorites",
			zap.String("recipe_id", id.String()), zap.Error(err))
	}

	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// normalizeList trims every token and drops empty ones. Applied to both
// the array and the comma-delimited input forms.
func normalizeList(items []string) models.StringArray {
	out := models.StringArray{}
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
