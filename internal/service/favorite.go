package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pausrq/cucharita-api/internal/models"
)

// FavoriteService owns the (user, recipe) favorites relation. Favoriting
// is independent of ownership: any authenticated caller may favorite any
// recipe.
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteService instance.
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle flips the favorite state of recipeID for userID and returns the
// recipe together with the new state. Toggle is its own inverse: applying
// it twice restores the original membership.
func (s *FavoriteService) Toggle(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, bool, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}

	var fav models.RecipeFavorite
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&fav).Error

	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Delete(&fav).Error; err != nil {
			return nil, false, err
		}
		return &recipe, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = models.RecipeFavorite{UserID: userID, RecipeID: recipeID}
		if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
			return nil, false, err
		}
		return &recipe, true, nil
	default:
		return nil, false, err
	}
}

// FavoriteSet bulk-checks membership for a batch of recipe ids in one
// query. Recipes without a pair are simply absent from the map.
func (s *FavoriteService) FavoriteSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return set, nil
	}

	var favIDs []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.RecipeFavorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &favIDs).Error
	if err != nil {
		return nil, err
	}

	for _, id := range favIDs {
		set[id] = true
	}
	return set, nil
}

// IsFavorite checks a single (user, recipe) pair.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	set, err := s.FavoriteSet(ctx, userID, []uuid.UUID{recipeID})
	if err != nil {
		return false, err
	}
	return set[recipeID], nil
}
