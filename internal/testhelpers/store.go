package testhelpers

import (
	"context"
	"sync"
)

// UploadCall records a single Upload invocation.
type UploadCall struct {
	Key         string
	ContentType string
	Size        int
}

// RecordingStore is an in-memory object store that records every call.
// Set UploadErr or RemoveErr to simulate a failing backend.
type RecordingStore struct {
	mu        sync.Mutex
	uploads   []UploadCall
	removed   []string
	UploadErr error
	RemoveErr error
}

func (s *RecordingStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	s.uploads = append(s.uploads, UploadCall{Key: key, ContentType: contentType, Size: len(data)})
	return "https://cdn.test/" + key, nil
}

func (s *RecordingStore) Remove(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	s.removed = append(s.removed, url)
	return nil
}

// Uploads returns a copy of the recorded upload calls.
func (s *RecordingStore) Uploads() []UploadCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UploadCall(nil), s.uploads...)
}

// Removed returns a copy of the URLs passed to Remove.
func (s *RecordingStore) Removed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}
