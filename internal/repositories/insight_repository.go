package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"soulmatch-service/internal/models"
)

// InsightRepository persists derived chat insights. Rows are write-once.
type InsightRepository interface {
	Create(ctx context.Context, insight models.Insight) (models.Insight, error)
	ListByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]models.Insight, error)
	ListByChats(ctx context.Context, chatIDs []uuid.UUID, limit int) ([]models.Insight, error)
}

// InsightRepo is a sqlx implementation of InsightRepository.
type InsightRepo struct {
	db *sqlx.DB
}

// NewInsightRepo constructs an InsightRepo.
func NewInsightRepo(db *sqlx.DB) *InsightRepo {
	return &InsightRepo{db: db}
}

func (r *InsightRepo) Create(ctx context.Context, insight models.Insight) (models.Insight, error) {
	var saved models.Insight
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO insights (id, chat_id, engagement_score, emotional_tone, response_time,
                               message_length, edit_frequency, compatibility_score, observations)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, chat_id, engagement_score, emotional_tone, response_time,
                   message_length, edit_frequency, compatibility_score, observations, created_at`,
		uuid.New(), insight.ChatID, insight.EngagementScore, insight.EmotionalTone,
		insight.ResponseTime, insight.MessageLength, insight.EditFrequency,
		insight.CompatibilityScore, insight.Observations).StructScan(&saved)
	return saved, err
}

func (r *InsightRepo) ListByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]models.Insight, error) {
	var insights []models.Insight
	err := r.db.SelectContext(ctx, &insights,
		`SELECT id, chat_id, engagement_score, emotional_tone, response_time,
                message_length, edit_frequency, compatibility_score, observations, created_at
         FROM insights
         WHERE chat_id=$1
         ORDER BY created_at DESC
         LIMIT $2`, chatID, limit)
	return insights, err
}

func (r *InsightRepo) ListByChats(ctx context.Context, chatIDs []uuid.UUID, limit int) ([]models.Insight, error) {
	ids := make([]string, 0, len(chatIDs))
	for _, id := range chatIDs {
		ids = append(ids, id.String())
	}

	var insights []models.Insight
	err := r.db.SelectContext(ctx, &insights,
		`SELECT id, chat_id, engagement_score, emotional_tone, response_time,
                message_length, edit_frequency, compatibility_score, observations, created_at
         FROM insights
         WHERE chat_id = ANY($1::uuid[])
         ORDER BY created_at DESC
         LIMIT $2`, pq.Array(ids), limit)
	return insights, err
}
