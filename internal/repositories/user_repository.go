package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"soulmatch-service/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrTokenNotFound = errors.New("refresh token not found")
)

// UserRepository abstracts account and refresh-token persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	SaveToken(ctx context.Context, token models.UserToken) error
	GetToken(ctx context.Context, refreshToken string) (models.UserToken, error)
	DeleteToken(ctx context.Context, id uuid.UUID) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)
         RETURNING id, email, password_hash, created_at`,
		uuid.New(), email, passwordHash).StructScan(&user)
	if isUniqueViolation(err) {
		return models.User{}, ErrEmailTaken
	}
	return user, err
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, password_hash, created_at FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, email, password_hash, created_at FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepo) SaveToken(ctx context.Context, token models.UserToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_tokens (id, user_id, refresh_token, expires_at) VALUES ($1, $2, $3, $4)`,
		token.ID, token.UserID, token.RefreshToken, token.ExpiresAt)
	return err
}

func (r *UserRepo) GetToken(ctx context.Context, refreshToken string) (models.UserToken, error) {
	var token models.UserToken
	err := r.db.GetContext(ctx, &token,
		`SELECT id, user_id, refresh_token, expires_at, created_at FROM user_tokens WHERE refresh_token=$1`,
		refreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserToken{}, ErrTokenNotFound
	}
	return token, err
}

func (r *UserRepo) DeleteToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE id=$1`, id)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
