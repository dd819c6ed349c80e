package types

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is the resolved identity behind a bearer token.
type TokenClaims struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}
