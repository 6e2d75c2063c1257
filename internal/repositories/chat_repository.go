package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"soulmatch-service/internal/models"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	// ErrPairExists signals that a concurrent request created the same
	// normal-mode pair first; callers should re-fetch the winner.
	ErrPairExists = errors.New("chat for pair already exists")
)

// PairKey builds the order-independent key for a normal chat's member pair.
func PairKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	if ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return strings.Join(ids, ":")
}

// ChatRepository abstracts chat and membership persistence.
type ChatRepository interface {
	FindNormalChatByPair(ctx context.Context, userID, otherID uuid.UUID) (models.Chat, error)
	CreateChatWithMembers(ctx context.Context, mode string, pairKey *string, memberIDs []uuid.UUID) (models.Chat, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (models.Chat, error)
	IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
	ListChatsForUser(ctx context.Context, userID uuid.UUID) ([]models.ChatSummary, error)
	ChatIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	TouchChat(ctx context.Context, chatID uuid.UUID) error
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// FindNormalChatByPair looks up the normal chat whose member set is exactly
// the given pair. Both memberships must match; a chat that merely contains
// one of the two users never qualifies.
func (r *ChatRepo) FindNormalChatByPair(ctx context.Context, userID, otherID uuid.UUID) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat,
		`SELECT c.id, c.mode, c.status, c.pair_key, c.created_at, c.updated_at
         FROM chats c
         JOIN chat_members m1 ON m1.chat_id = c.id AND m1.user_id = $1
         JOIN chat_members m2 ON m2.chat_id = c.id AND m2.user_id = $2
         WHERE c.mode = $3
         LIMIT 1`, userID, otherID, models.ModeNormal)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	if err != nil {
		return models.Chat{}, err
	}
	chat.Members, err = r.members(ctx, chat.ID)
	return chat, err
}

// CreateChatWithMembers inserts a chat and its membership rows in one
// transaction. A non-nil pairKey makes the insert race-safe: losing the
// unique-index race returns ErrPairExists instead of a duplicate chat.
func (r *ChatRepo) CreateChatWithMembers(ctx context.Context, mode string, pairKey *string, memberIDs []uuid.UUID) (models.Chat, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, err
	}
	defer tx.Rollback()

	var chat models.Chat
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO chats (id, mode, status, pair_key) VALUES ($1, $2, 'active', $3)
         ON CONFLICT (pair_key) DO NOTHING
         RETURNING id, mode, status, pair_key, created_at, updated_at`,
		uuid.New(), mode, pairKey).StructScan(&chat)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrPairExists
	}
	if err != nil {
		return models.Chat{}, err
	}

	now := time.Now().UTC()
	for _, memberID := range memberIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_members (chat_id, user_id, joined_at) VALUES ($1, $2, $3)`,
			chat.ID, memberID, now); err != nil {
			return models.Chat{}, err
		}
		chat.Members = append(chat.Members, models.ChatMember{ChatID: chat.ID, UserID: memberID, JoinedAt: now})
	}

	if err := tx.Commit(); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// GetChat fetches a chat by id, including its memberships.
func (r *ChatRepo) GetChat(ctx context.Context, chatID uuid.UUID) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat,
		`SELECT id, mode, status, pair_key, created_at, updated_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	if err != nil {
		return models.Chat{}, err
	}
	chat.Members, err = r.members(ctx, chat.ID)
	return chat, err
}

// IsMember checks whether a user belongs to the chat.
func (r *ChatRepo) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// ListChatsForUser returns the user's chats, most recently active first,
// joined with the counterpart's profile where one exists.
func (r *ChatRepo) ListChatsForUser(ctx context.Context, userID uuid.UUID) ([]models.ChatSummary, error) {
	type row struct {
		models.Chat
		OtherID       *uuid.UUID     `db:"other_id"`
		OtherNickname *string        `db:"other_nickname"`
		OtherPhotos   pq.StringArray `db:"other_photos"`
		OtherMode     *string        `db:"other_mode"`
	}

	var rows []row
	err := r.db.SelectContext(ctx, &rows,
		`SELECT c.id, c.mode, c.status, c.pair_key, c.created_at, c.updated_at,
                p.id AS other_id, p.nickname AS other_nickname, p.photos AS other_photos, p.mode AS other_mode
         FROM chats c
         JOIN chat_members me ON me.chat_id = c.id AND me.user_id = $1
         LEFT JOIN chat_members other ON other.chat_id = c.id AND other.user_id <> $1
         LEFT JOIN profiles p ON p.id = other.user_id
         ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChatSummary, 0, len(rows))
	for _, r := range rows {
		summary := models.ChatSummary{
			ID:        r.Chat.ID,
			Mode:      r.Chat.Mode,
			Status:    r.Chat.Status,
			CreatedAt: r.Chat.CreatedAt,
			UpdatedAt: r.Chat.UpdatedAt,
		}
		if r.OtherID != nil {
			summary.OtherUser = &models.OtherUser{ID: *r.OtherID}
			if r.OtherNickname != nil {
				summary.OtherUser.Nickname = *r.OtherNickname
			}
			summary.OtherUser.Photos = r.OtherPhotos
			if r.OtherMode != nil {
				summary.OtherUser.Mode = *r.OtherMode
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ChatIDsForUser returns ids of every chat the user belongs to.
func (r *ChatRepo) ChatIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT chat_id FROM chat_members WHERE user_id=$1`, userID)
	return ids, err
}

// TouchChat bumps the chat's updated_at after new activity.
func (r *ChatRepo) TouchChat(ctx context.Context, chatID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chats SET updated_at = NOW() WHERE id=$1`, chatID)
	return err
}

func (r *ChatRepo) members(ctx context.Context, chatID uuid.UUID) ([]models.ChatMember, error) {
	var members []models.ChatMember
	err := r.db.SelectContext(ctx, &members,
		`SELECT chat_id, user_id, joined_at FROM chat_members WHERE chat_id=$1 ORDER BY joined_at`, chatID)
	return members, err
}
