package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pausrq/cucharita-api/internal/models"
	"github.com/pausrq/cucharita-api/internal/testhelpers"
)

func TestFavoriteToggle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	fan := testhelpers.CreateTestUser(t, db, "fan@example.com")
	svc := NewFavoriteService(db)

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Paella")

	got, isFavorite, err := svc.Toggle(context.Background(), fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, isFavorite)
	assert.Equal(t, recipe.ID, got.ID)

	var count int64
	db.Model(&models.RecipeFavorite{}).
		Where("user_id = ? AND recipe_id = ?", fan.ID, recipe.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)

	// Applying the toggle again restores the original state.
	_, isFavorite, err = svc.Toggle(context.Background(), fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, isFavorite)

	db.Model(&models.RecipeFavorite{}).
		Where("user_id = ? AND recipe_id = ?", fan.ID, recipe.ID).
		Count(&count)
	assert.Zero(t, count)
}

func TestFavoriteToggleUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	fan := testhelpers.CreateTestUser(t, db, "fan@example.com")
	svc := NewFavoriteService(db)

	_, _, err := svc.Toggle(context.Background(), fan.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoriteTogglePerUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	alice := testhelpers.CreateTestUser(t, db, "alice@example.com")
	bob := testhelpers.CreateTestUser(t, db, "bob@example.com")
	svc := NewFavoriteService(db)

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Paella")

	_, _, err := svc.Toggle(context.Background(), alice.ID, recipe.ID)
	require.NoError(t, err)

	aliceFav, err := svc.IsFavorite(context.Background(), alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, aliceFav)

	bobFav, err := svc.IsFavorite(context.Background(), bob.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, bobFav)
}

func TestFavoriteSet(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	fan := testhelpers.CreateTestUser(t, db, "fan@example.com")
	svc := NewFavoriteService(db)

	liked := testhelpers.CreateTestRecipe(t, db, owner, "Paella")
	ignored := testhelpers.CreateTestRecipe(t, db, owner, "Gazpacho")
	require.NoError(t, db.Create(&models.RecipeFavorite{
		UserID: fan.ID, RecipeID: liked.ID,
	}).Error)

	set, err := svc.FavoriteSet(context.Background(), fan.ID, []uuid.UUID{liked.ID, ignored.ID})
	require.NoError(t, err)
	assert.True(t, set[liked.ID])
	assert.False(t, set[ignored.ID])

	set, err = svc.FavoriteSet(context.Background(), fan.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, set)
}
