package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength caps message content size in characters.
const MaxMessageLength = 1000

// Message is an ordered event within one chat. Rows are immutable once
// written except for the read and edit timestamps.
type Message struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ChatID          uuid.UUID  `db:"chat_id" json:"chat_id"`
	SenderID        uuid.UUID  `db:"sender_id" json:"sender_id"`
	Content         string     `db:"content" json:"content"`
	Timestamp       time.Time  `db:"timestamp" json:"timestamp"`
	ReadAt          *time.Time `db:"read_at" json:"read_at"`
	EditedAt        *time.Time `db:"edited_at" json:"edited_at"`
	TypingDuration  *int       `db:"typing_duration" json:"typing_duration"`
	PauseBeforeSend *int       `db:"pause_before_send" json:"pause_before_send"`
}

// ChatEvent is broadcast through websockets.
type ChatEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}
