package storage

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no object storage bucket is configured.
var ErrDisabled = errors.New("object storage is not configured")

// Disabled is an ObjectStore used when S3_BUCKET_NAME is unset: uploads
// fail, deletes are a no-op so recipe deletion is unaffected.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Remove(ctx context.Context, url string) error {
	return nil
}
