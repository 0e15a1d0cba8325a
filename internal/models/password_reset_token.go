package models

import "time"

// PasswordResetToken is the stored half of a reset secret. Only the sha256
// of the plain secret is kept; the plain value exists only in the email.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}
