package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pausrq/cucharita-api/internal/models"
)

// ImageService associates at most one stored image with a recipe. The
// storage key is generated fresh on every attach, scoped under the owner's
// id, so blobs are never reused or overwritten.
type ImageService struct {
	db       *gorm.DB
	store    ObjectStore
	maxBytes int64
	logger   *zap.Logger
}

// NewImageService creates a new ImageService instance.
func NewImageService(db *gorm.DB, store ObjectStore, maxBytes int64, logger *zap.Logger) *ImageService {
	return &ImageService{
		db:       db,
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Attach stores the image and points the recipe at it. A previously stored
// image is deleted best-effort: failure to delete the old blob is logged
// and the attach still succeeds.
func (s *ImageService) Attach(ctx context.Context, recipeID, callerID uuid.UUID, data []byte, contentType, filename string) (*models.Recipe, error) {
	if len(data) == 0 {
		return nil, NewValidationError("No image file provided")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, NewValidationError("Only image files are allowed")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, NewValidationError(fmt.Sprintf("Image exceeds the maximum size of %d bytes", s.maxBytes))
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.UserID != callerID {
		return nil, fmt.Errorf("%w to upload an image for this recipe", ErrForbidden)
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: no object store configured", ErrStorageProvider)
	}

	if recipe.ImageURL != "" {
		if err := s.store.Remove(ctx, recipe.ImageURL); err != nil {
			s.logger.Warn("failed to delete previous recipe image",
				zap.String("recipe_id", recipeID.String()),
				zap.String("image_url", recipe.ImageURL),
				zap.Error(err))
		}
	}

	key := objectKey(callerID, filename)
	url, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageProvider, err)
	}

	if err := s.db.WithContext(ctx).Model(&recipe).
		Updates(map[string]interface{}{"image_url": url}).Error; err != nil {
		return nil, err
	}

	var updated models.Recipe
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", recipeID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// objectKey derives a collision-free storage path under the owner's
// namespace. The user-supplied filename contributes only its extension.
func objectKey(ownerID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", ownerID, uuid.New(), ext)
}
