package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the API layer.
var (
	// ErrNotFound: no recipe with the requested id.
	ErrNotFound = errors.New("recipe not found")
	// ErrForbidden: caller is authenticated but not the owner.
	ErrForbidden = errors.New("not authorized")
	// ErrInvalidCredentials: bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken: missing, malformed, expired or revoked bearer token.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrAuthProvider: the identity backend failed, distinct from the
	// caller's own bad credential.
	ErrAuthProvider = errors.New("authentication backend unavailable")
	// ErrStorageProvider: the object storage backend failed.
	ErrStorageProvider = errors.New("storage backend unavailable")
)

// ValidationError reports malformed or missing request input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
