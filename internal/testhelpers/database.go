package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pausrq/cucharita-api/internal/database"
	"github.com/pausrq/cucharita-api/internal/models"
)

// TestPassword is the password every fixture user is created with.
const TestPassword = "secret-password"

// SetupTestDB opens an in-memory sqlite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestUser inserts a user with a profile and TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}

	profile := &models.UserProfile{
		UserID:   user.ID,
		Username: fmt.Sprintf("user-%s", user.ID.String()[:8]),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile for %s: %v", email, err)
	}
	return user
}

// CreateTestRecipe inserts a recipe owned by the given user.
func CreateTestRecipe(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		UserID:      owner.ID,
		Title:       title,
		Description: "description of " + title,
		Ingredients: models.StringArray{"flour", "water"},
		Steps:       models.StringArray{"mix", "bake"},
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", title, err)
	}
	return recipe
}
