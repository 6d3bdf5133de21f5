package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/mkolesnikov/titledb/internal/apperr"
	"github.com/mkolesnikov/titledb/internal/config"
	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/mailer"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/rbac"
)

// reservedUsername collides with the /users/me self-service route and can
// never be registered.
const reservedUsername = "me"

// ActivationHook runs synchronously after an account transitions to active,
// in registration order.
type ActivationHook func(user *models.User)

// AuthService owns the signup → pending → active state machine and token
// issuance.
type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	mail  mailer.Mailer
	hooks []ActivationHook
}

func NewAuthService(db *gorm.DB, cfg *config.Config, mail mailer.Mailer, hooks ...ActivationHook) *AuthService {
	return &AuthService{db: db, cfg: cfg, mail: mail, hooks: hooks}
}

// Signup creates an inactive account and dispatches its confirmation code.
func (s *AuthService) Signup(req *dto.SignupRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" {
		return nil, apperr.Validation("username and email are required")
	}
	if strings.EqualFold(username, reservedUsername) {
		return nil, apperr.Validation("username %q is reserved", reservedUsername)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     string(rbac.RoleUser),
		Active:   false,
	}
	if err := s.db.Create(user).Error; err != nil {
		// The unique indexes are the authoritative guard: two concurrent
		// signups race here and exactly one wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("cannot create user: username or email already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	code := DeriveConfirmationCode(s.cfg.ConfirmationSecret, user.Username, user.Active)
	s.mail.Deliver(user.Email, code)

	return user, nil
}

// Confirm validates a presented confirmation code against the code derivable
// from the user's current state and, on match, performs the single
// pending → active transition and issues a credential pair.
//
// Re-confirming an already-active account fails closed: activation changed
// the derivation input, so the code that was mailed out no longer validates.
func (s *AuthService) Confirm(req *dto.TokenRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidCredential("unknown username")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	want := DeriveConfirmationCode(s.cfg.ConfirmationSecret, user.Username, user.Active)
	if subtle.ConstantTimeCompare([]byte(want), []byte(req.ConfirmationCode)) != 1 {
		return nil, apperr.InvalidCredential("invalid confirmation code")
	}

	// Guarded single UPDATE: at most one confirm per account ever takes
	// this transition, even under concurrent requests.
	res := s.db.Model(&models.User{}).
		Where("id = ? AND active = ?", user.ID, false).
		Update("active", true)
	if res.Error != nil {
		return nil, fmt.Errorf("activate user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidCredential("invalid confirmation code")
	}
	user.Active = true

	s.fireActivationHooks(&user)

	return s.issueTokenPair(&user)
}

// Refresh rotates a valid refresh token into a fresh credential pair. The
// presented token is revoked whether or not rotation succeeds.
func (s *AuthService) Refresh(refreshToken string) (*dto.AuthResponse, error) {
	tokenHash := hashToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, apperr.InvalidCredential("invalid or expired refresh token")
	}

	// If revocation does not land, no new pair may be issued: the presented
	// token would stay valid alongside its replacement.
	if err := s.db.Model(&stored).Update("revoked", true).Error; err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperr.InvalidCredential("invalid or expired refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, apperr.InvalidCredential("invalid or expired refresh token")
	}

	return s.issueTokenPair(&user)
}

// Logout revokes a refresh token. Revoking an unknown token is a no-op.
func (s *AuthService) Logout(refreshToken string) error {
	tokenHash := hashToken(refreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) fireActivationHooks(user *models.User) {
	for _, hook := range s.hooks {
		hook(user)
	}
}

func (s *AuthService) issueTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
			Active:   user.Active,
			Bio:      user.Bio,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
