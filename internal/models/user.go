// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MaxReviewHistory is the hard cap on stored review records per user.
// Oldest entries are dropped first when the cap is exceeded.
const MaxReviewHistory = 100

// ReviewRecord is a single reviewed snippet in a user's history.
type ReviewRecord struct {
	Code      string    `json:"code"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewHistory is the ordered (oldest first) list of review records, stored
// as a single JSON document column on the user row.
type ReviewHistory []ReviewRecord

// Value implements driver.Valuer so gorm persists the history as JSON.
func (h ReviewHistory) Value() (driver.Value, error) {
	if h == nil {
		h = ReviewHistory{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the JSON history column.
func (h *ReviewHistory) Scan(value any) error {
	if value == nil {
		*h = ReviewHistory{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("unsupported review history column type %T", value)
	}
}

// Append adds a record and drops the oldest entries beyond MaxReviewHistory.
func (h ReviewHistory) Append(rec ReviewRecord) ReviewHistory {
	out := append(h, rec)
	if len(out) > MaxReviewHistory {
		out = out[len(out)-MaxReviewHistory:]
	}
	return out
}

// User represents a registered CodeLens user.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	LastCode      string         `json:"lastCode"`
	ReviewHistory ReviewHistory  `gorm:"type:jsonb" json:"reviewHistory"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Profile is the subset of user fields returned by auth endpoints. The
// password hash never leaves the model layer.
type Profile struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	LastCode string `json:"lastCode"`
}

// ToProfile strips a user down to its public profile fields.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		LastCode: u.LastCode,
	}
}
