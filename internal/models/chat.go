package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Chat represents a conversation between exactly two profiles.
// pair_key is the sorted member pair of a normal chat; its unique index is
// what makes concurrent pairing requests converge on a single row.
type Chat struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	Mode      string       `db:"mode" json:"mode"`
	Status    string       `db:"status" json:"status"`
	PairKey   *string      `db:"pair_key" json:"-"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	Members   []ChatMember `db:"-" json:"chat_members,omitempty"`
}

// ChatMember links a user to a chat and authorizes message access.
type ChatMember struct {
	ChatID   uuid.UUID `db:"chat_id" json:"chat_id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// ChatSummary is the API view of a chat from one member's perspective.
type ChatSummary struct {
	ID        uuid.UUID  `json:"id"`
	Mode      string     `json:"mode"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	OtherUser *OtherUser `json:"other_user"`
}

// OtherUser is the counterpart profile shown in chat listings.
type OtherUser struct {
	ID       uuid.UUID      `json:"id"`
	Nickname string         `json:"nickname"`
	Photos   pq.StringArray `json:"photos"`
	Mode     string         `json:"mode"`
}
