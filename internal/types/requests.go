package types

import (
	"encoding/json"
	"strings"
)

// StringList accepts either a JSON array of strings or a single
// comma-delimited string. The mobile clients send both forms.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = strings.Split(s, ",")
	return nil
}

// RegisterRequest is the request body for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request body for PUT /api/auth/profile.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// CreateRecipeRequest is the request body for POST /api/recipes.
type CreateRecipeRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Ingredients StringList `json:"ingredients"`
	Steps       StringList `json:"steps"`
}

// UpdateRecipeRequest is the request body for PUT /api/recipes/:id.
// Nil fields retain their prior value.
type UpdateRecipeRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Ingredients *StringList `json:"ingredients"`
	Steps       *StringList `json:"steps"`
}
