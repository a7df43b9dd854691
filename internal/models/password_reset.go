package models

import "time"

// PasswordResetToken stores the bcrypt hash of a reset secret. The record ID
// is the non-secret selector handed out alongside the secret.
type PasswordResetToken struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `gorm:"type:varchar(36);not null;index"`
	SecretHash string    `gorm:"type:varchar(255);not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
