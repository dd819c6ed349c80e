package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pausrq/cucharita-api/internal/models"
	"github.com/pausrq/cucharita-api/internal/testhelpers"
	"github.com/pausrq/cucharita-api/internal/types"
)

func TestRecipeCreate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "cook@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	recipe, err := svc.Create(context.Background(), owner.ID, &types.CreateRecipeRequest{
		Title:       "  Tortilla de patatas  ",
		Description: "Classic Spanish omelette",
		Ingredients: types.StringList{" eggs ", "", "potatoes", "  "},
		Steps:       types.StringList{"peel", " fry ", ""},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, owner.ID, recipe.UserID)
	assert.Equal(t, "Tortilla de patatas", recipe.Title)
	assert.Equal(t, models.StringArray{"eggs", "potatoes"}, recipe.Ingredients)
	assert.Equal(t, models.StringArray{"peel", "fry"}, recipe.Steps)
	assert.WithinDuration(t, recipe.CreatedAt, recipe.UpdatedAt, time.Second)
}

func TestRecipeCreateValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "cook@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	cases := []struct {
		name string
		req  types.CreateRecipeRequest
	}{
		{"missing title", types.CreateRecipeRequest{Description: "d"}},
		{"missing description", types.CreateRecipeRequest{Title: "t"}},
		{"whitespace title", types.CreateRecipeRequest{Title: "   ", Description: "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner.ID, &tc.req)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestRecipeGetNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeListOrdering(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "cook@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := models.Recipe{
		UserID: owner.ID, Title: "older", Description: "d",
		CreatedAt: base.Add(-time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)

	// Two rows share a timestamp; the larger id wins the tie.
	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	highID := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	require.NoError(t, db.Create(&models.Recipe{
		ID: lowID, UserID: owner.ID, Title: "tied low", Description: "d", CreatedAt: base,
	}).Error)
	require.NoError(t, db.Create(&models.Recipe{
		ID: highID, UserID: owner.ID, Title: "tied high", Description: "d", CreatedAt: base,
	}).Error)

	recipes, err := svc.List(context.Background(), ScopeAll())
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, highID, recipes[0].ID)
	assert.Equal(t, lowID, recipes[1].ID)
	assert.Equal(t, older.ID, recipes[2].ID)
}

func TestRecipeListScopes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	alice := testhelpers.CreateTestUser(t, db, "alice@example.com")
	bob := testhelpers.CreateTestUser(t, db, "bob@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	mine := testhelpers.CreateTestRecipe(t, db, alice, "Gazpacho")
	theirs := testhelpers.CreateTestRecipe(t, db, bob, "Paella")
	require.NoError(t, db.Create(&models.RecipeFavorite{
		UserID: alice.ID, RecipeID: theirs.ID,
	}).Error)

	t.Run("owned by", func(t *testing.T) {
		recipes, err := svc.List(context.Background(), ScopeOwnedBy(alice.ID))
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, mine.ID, recipes[0].ID)
	})

	t.Run("favorites of", func(t *testing.T) {
		recipes, err := svc.List(context.Background(), ScopeFavoritesOf(alice.ID))
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, theirs.ID, recipes[0].ID)
	})

	t.Run("favorites of user without favorites", func(t *testing.T) {
		recipes, err := svc.List(context.Background(), ScopeFavoritesOf(bob.ID))
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})
}

func TestRecipeSearch(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "cook@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	target := testhelpers.CreateTestRecipe(t, db, owner, "Lentil Soup")
	testhelpers.CreateTestRecipe(t, db, owner, "Apple Pie")

	t.Run("case insensitive title match", func(t *testing.T) {
		recipes, err := svc.List(context.Background(), ScopeSearch("LENTIL"))
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, target.ID, recipes[0].ID)
	})

	t.Run("description match", func(t *testing.T) {
		recipes, err := svc.List(context.Background(), ScopeSearch("description of lentil"))
		require.NoError(t, err)
		require.Len(t, recipes, 1)
	})

	t.Run("no match", func(t *testing.T) {
		recipes, err := svc.List(context.Background(), ScopeSearch("sushi"))
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("blank query rejected", func(t *testing.T) {
		_, err := svc.List(context.Background(), ScopeSearch("   "))
		assert.True(t, IsValidation(err))
	})
}

func TestRecipeUpdate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "cook@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Croquetas")

	time.Sleep(20 * time.Millisecond)

	title := "Croquetas de jamon"
	steps := types.StringList{"  roll ", "fry"}
	updated, err := svc.Update(context.Background(), recipe.ID, owner.ID, &types.UpdateRecipeRequest{
		Title: &title,
		Steps: &steps,
	})
	require.NoError(t, err)

	assert.Equal(t, "Croquetas de jamon", updated.Title)
	assert.Equal(t, models.StringArray{"roll", "fry"}, updated.Steps)
	// Unset fields keep their prior value.
	assert.Equal(t, recipe.Description, updated.Description)
	assert.Equal(t, recipe.Ingredients, updated.Ingredients)
	assert.Equal(t, owner.ID, updated.UserID)
	assert.True(t, updated.UpdatedAt.After(recipe.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(recipe.CreatedAt))
}

func TestRecipeUpdateBlankField(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "cook@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Croquetas")

	blank := "  "
	_, err := svc.Update(context.Background(), recipe.ID, owner.ID, &types.UpdateRecipeRequest{Title: &blank})
	assert.True(t, IsValidation(err))

	_, err = svc.Update(context.Background(), recipe.ID, owner.ID, &types.UpdateRecipeRequest{Description: &blank})
	assert.True(t, IsValidation(err))
}

func TestRecipeUpdateOwnership(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	intruder := testhelpers.CreateTestUser(t, db, "intruder@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Flan")

	title := "stolen"
	_, err := svc.Update(context.Background(), recipe.ID, intruder.ID, &types.UpdateRecipeRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, "Flan", stored.Title)
}

func TestRecipeDelete(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	fan := testhelpers.CreateTestUser(t, db, "fan@example.com")
	store := &testhelpers.RecordingStore{}
	svc := NewRecipeService(db, store, zap.NewNop())

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Flan")
	require.NoError(t, db.Model(recipe).Update("image_url", "https://cdn.test/old.jpg").Error)
	require.NoError(t, db.Create(&models.RecipeFavorite{UserID: fan.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, svc.Delete(context.Background(), recipe.ID, owner.ID))

	var count int64
	db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.RecipeFavorite{}).Where("recipe_id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, []string{"https://cdn.test/old.jpg"}, store.Removed())
}

func TestRecipeDeleteSurvivesStoreFailure(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	store := &testhelpers.RecordingStore{RemoveErr: errors.New("bucket unavailable")}
	svc := NewRecipeService(db, store, zap.NewNop())

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Flan")
	require.NoError(t, db.Model(recipe).Update("image_url", "https://cdn.test/old.jpg").Error)

	require.NoError(t, svc.Delete(context.Background(), recipe.ID, owner.ID))

	var count int64
	db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRecipeDeleteOwnership(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db, "owner@example.com")
	intruder := testhelpers.CreateTestUser(t, db, "intruder@example.com")
	svc := NewRecipeService(db, nil, zap.NewNop())

	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Flan")

	err := svc.Delete(context.Background(), recipe.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), uuid.New(), owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
