package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"soulmatch-service/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository abstracts profile persistence.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile models.Profile) error
	Get(ctx context.Context, id uuid.UUID) (models.Profile, error)
	Reserve(ctx context.Context, id uuid.UUID) error
	MysteryCandidates(ctx context.Context, exclude uuid.UUID, limit int) ([]uuid.UUID, error)
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Upsert replaces the single profile row keyed by its owner id.
func (r *ProfileRepo) Upsert(ctx context.Context, p models.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, full_name, nickname, dob, gender, bio, photos, interests, mode, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
         ON CONFLICT (id) DO UPDATE SET
            full_name = EXCLUDED.full_name,
            nickname = EXCLUDED.nickname,
            dob = EXCLUDED.dob,
            gender = EXCLUDED.gender,
            bio = EXCLUDED.bio,
            photos = EXCLUDED.photos,
            interests = EXCLUDED.interests,
            mode = EXCLUDED.mode,
            updated_at = NOW()`,
		p.ID, p.FullName, p.Nickname, p.DOB, p.Gender, p.Bio, p.Photos, p.Interests, p.Mode)
	return err
}

func (r *ProfileRepo) Get(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile,
		`SELECT id, full_name, nickname, dob, gender, bio, photos, interests, mode, created_at, updated_at
         FROM profiles WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// Reserve inserts an empty profile row for a fresh account so the id exists
// before profile setup completes. No-op when the row is already there.
func (r *ProfileRepo) Reserve(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, mode) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		id, models.ModeNormal)
	return err
}

// MysteryCandidates returns up to limit profile ids in mystery mode,
// excluding the requester.
func (r *ProfileRepo) MysteryCandidates(ctx context.Context, exclude uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM profiles WHERE mode=$1 AND id<>$2 LIMIT $3`,
		models.ModeMystery, exclude, limit)
	return ids, err
}
