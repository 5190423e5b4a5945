package models

import (
	"time"
)

// PasswordResetToken is a single-use, time-bounded credential reset capability
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;size:255;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false;not null" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for PasswordResetToken model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsExpired reports whether now is at or past the expiry instant. Both sides
// are normalised to UTC before comparing.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !now.UTC().Before(t.ExpiresAt.UTC())
}

// IsValid reports whether the token can still be consumed.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}
