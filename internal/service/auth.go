package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pausrq/cucharita-api/internal/models"
	"github.com/pausrq/cucharita-api/internal/types"
)

const (
	minPasswordLength = 6
	tokenTTL          = 24 * time.Hour
	denylistPrefix    = "denylist:"
)

// AuthService is the local identity provider: it issues and verifies
// session tokens and owns the user and profile rows. Logout revocation
// goes through a Redis denylist; without Redis a token stays valid until
// it expires.
type AuthService struct {
	db        *gorm.DB
	redis     *redis.Client
	jwtSecret string
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService. redisClient may be nil.
func NewAuthService(db *gorm.DB, redisClient *redis.Client, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redisClient,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a user with a profile and returns a session token.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", NewValidationError("Email and password are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, "", NewValidationError("User already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	profile := models.UserProfile{
		UserID:   user.ID,
		Username: username,
		FullName: strings.TrimSpace(req.FullName),
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		// The account is usable without a profile row; /me repairs it.
		s.logger.Warn("failed to create profile at registration",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}
	return &user, token, nil
}

// Login verifies an email/password pair and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", NewValidationError("Email and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}
	return &user, token, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if s.redis == nil {
		s.logger.Debug("logout without redis, token remains valid until expiry",
			zap.String("user_id", claims.UserID.String()))
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, denylistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}
	return nil
}

// ValidateToken resolves a bearer token to its claims, rejecting revoked
// tokens when a denylist is configured.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if s.redis != nil {
		n, err := s.redis.Exists(ctx, denylistKey(token)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthProvider, err)
		}
		if n > 0 {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// CurrentUser returns the user and profile, creating the profile row when
// it is missing.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, *models.UserProfile, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}

	profile, err := s.profileFor(ctx, &user)
	if err != nil {
		return nil, nil, err
	}
	return &user, profile, nil
}

// UpdateProfile changes only the provided fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}

	profile, err := s.profileFor(ctx, &user)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		if strings.TrimSpace(*req.Username) == "" {
			return nil, NewValidationError("Username cannot be empty")
		}
		updates["username"] = strings.TrimSpace(*req.Username)
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}
	return profile, nil
}

func (s *AuthService) profileFor(ctx context.Context, user *models.User) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}

	profile = models.UserProfile{
		UserID:   user.ID,
		Username: strings.SplitN(user.Email, "@", 2)[0],
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthProvider, err)
	}
	return &profile, nil
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("missing token expiry")
	}

	return &types.TokenClaims{UserID: userID, ExpiresAt: exp.Time}, nil
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return denylistPrefix + hex.EncodeToString(sum[:])
}
