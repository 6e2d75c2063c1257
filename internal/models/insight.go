package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Insight is a derived, read-only snapshot of a chat's recent activity.
type Insight struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	ChatID             uuid.UUID      `db:"chat_id" json:"chat_id"`
	EngagementScore    int            `db:"engagement_score" json:"engagement_score"`
	EmotionalTone      string         `db:"emotional_tone" json:"emotional_tone"`
	ResponseTime       int            `db:"response_time" json:"response_time"`
	MessageLength      int            `db:"message_length" json:"message_length"`
	EditFrequency      float64        `db:"edit_frequency" json:"edit_frequency"`
	CompatibilityScore int            `db:"compatibility_score" json:"compatibility_score"`
	Observations       pq.StringArray `db:"observations" json:"insights"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}
