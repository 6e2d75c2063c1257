package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	ModeMystery = "mystery"
	ModeNormal  = "normal"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Profile is a user's identity record, keyed by the owning user id.
// dob is kept as a YYYY-MM-DD string; validation enforces the format.
type Profile struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	FullName  string         `db:"full_name" json:"full_name"`
	Nickname  string         `db:"nickname" json:"nickname"`
	DOB       string         `db:"dob" json:"dob"`
	Gender    string         `db:"gender" json:"gender"`
	Bio       string         `db:"bio" json:"bio"`
	Photos    pq.StringArray `db:"photos" json:"photos"`
	Interests JSONMap        `db:"interests" json:"interests"`
	Mode      string         `db:"mode" json:"mode"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

func ValidMode(mode string) bool {
	return mode == ModeMystery || mode == ModeNormal
}

func ValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale || gender == GenderOther
}

// JSONMap stores free-form key/value data in a JSONB column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
