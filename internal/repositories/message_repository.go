package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"soulmatch-service/internal/models"
)

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	Create(ctx context.Context, chatID, senderID uuid.UUID, content string, typingDuration, pauseBeforeSend *int) (models.Message, error)
	ListByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, chatID, readerID uuid.UUID) error
	Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create appends a message with a server-assigned timestamp.
func (r *MessageRepo) Create(ctx context.Context, chatID, senderID uuid.UUID, content string, typingDuration, pauseBeforeSend *int) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (id, chat_id, sender_id, content, typing_duration, pause_before_send)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, chat_id, sender_id, content, timestamp, read_at, edited_at, typing_duration, pause_before_send`,
		uuid.New(), chatID, senderID, content, typingDuration, pauseBeforeSend).StructScan(&msg)
	return msg, err
}

// ListByChat returns messages ordered by timestamp ascending with pagination.
func (r *MessageRepo) ListByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, content, timestamp, read_at, edited_at, typing_duration, pause_before_send
         FROM messages
         WHERE chat_id=$1
         ORDER BY timestamp ASC
         LIMIT $2 OFFSET $3`, chatID, limit, offset)
	return msgs, err
}

// MarkRead stamps every unread message not authored by the reader, in one
// bulk update. The read_at IS NULL predicate prevents double-stamping.
func (r *MessageRepo) MarkRead(ctx context.Context, chatID, readerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at = NOW()
         WHERE chat_id=$1 AND sender_id<>$2 AND read_at IS NULL`, chatID, readerID)
	return err
}

// Recent returns up to limit messages, newest first.
func (r *MessageRepo) Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, content, timestamp, read_at, edited_at, typing_duration, pause_before_send
         FROM messages
         WHERE chat_id=$1
         ORDER BY timestamp DESC
         LIMIT $2`, chatID, limit)
	return msgs, err
}
