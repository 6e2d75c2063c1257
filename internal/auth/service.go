package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"soulmatch-service/internal/apperr"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/repositories"
)

const minPasswordLength = 6

// TokenValidator verifies an access token and returns the caller's user id.
// The auth middleware and websocket handshake depend on this, not on Service.
type TokenValidator interface {
	ValidateAccessToken(token string) (uuid.UUID, error)
}

// Session is the token pair handed to clients.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service implements account registration, login and token refresh.
// Access tokens are HS256 JWTs; refresh tokens are opaque uuids persisted
// in user_tokens and rotated on every refresh.
type Service struct {
	users      repositories.UserRepository
	profiles   repositories.ProfileRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService constructs the auth service.
func NewService(users repositories.UserRepository, profiles repositories.ProfileRepository, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		profiles:   profiles,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates an account, reserves an empty profile row for it and
// issues the first session.
func (s *Service) Register(ctx context.Context, email, password string) (models.User, Session, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return models.User{}, Session{}, apperr.Validation("invalid email or password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, string(hash))
	if errors.Is(err, repositories.ErrEmailTaken) {
		return models.User{}, Session{}, apperr.Validation("email is already registered")
	}
	if err != nil {
		return models.User{}, Session{}, apperr.Persistence(err)
	}

	if err := s.profiles.Reserve(ctx, user.ID); err != nil {
		return models.User{}, Session{}, apperr.Persistence(err)
	}

	session, err := s.issueSession(ctx, user)
	return user, session, err
}

// Login verifies credentials and issues a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, Session{}, apperr.Validation("email and password required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, Session{}, apperr.Authentication("invalid credentials")
	}
	if err != nil {
		return models.User{}, Session{}, apperr.Persistence(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, Session{}, apperr.Authentication("invalid credentials")
	}

	session, err := s.issueSession(ctx, user)
	return user, session, err
}

// Refresh rotates a refresh token: the presented token is deleted and a new
// session issued. Expired or unknown tokens fail authentication.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (models.User, Session, error) {
	if refreshToken == "" {
		return models.User{}, Session{}, apperr.Validation("refresh_token required")
	}

	stored, err := s.users.GetToken(ctx, refreshToken)
	if errors.Is(err, repositories.ErrTokenNotFound) {
		return models.User{}, Session{}, apperr.Authentication("invalid refresh token")
	}
	if err != nil {
		return models.User{}, Session{}, apperr.Persistence(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.users.DeleteToken(ctx, stored.ID)
		return models.User{}, Session{}, apperr.Authentication("refresh token expired")
	}

	user, err := s.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return models.User{}, Session{}, apperr.Authentication("invalid refresh token")
	}

	if err := s.users.DeleteToken(ctx, stored.ID); err != nil {
		return models.User{}, Session{}, apperr.Persistence(err)
	}

	session, err := s.issueSession(ctx, user)
	return user, session, err
}

// ValidateAccessToken parses and verifies a JWT, returning the subject id.
func (s *Service) ValidateAccessToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, apperr.Authentication("invalid token")
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, apperr.Authentication("invalid token")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, apperr.Authentication("invalid token")
	}
	return id, nil
}

func (s *Service) issueSession(ctx context.Context, user models.User) (Session, error) {
	expiresAt := time.Now().Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.NewString()
	token := models.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.refreshTTL),
	}
	if err := s.users.SaveToken(ctx, token); err != nil {
		return Session{}, apperr.Persistence(err)
	}

	return Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
