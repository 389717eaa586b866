package models

import "time"

// PendingSignup is the staged registration payload held in the ephemeral
// store until email verification completes. The credential is hashed before
// it is ever staged.
type PendingSignup struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// SignupSession pairs the staged payload with its one-time passcode under a
// single key so both share one TTL. Code is cleared once consumed; Verified
// marks that a successful compare happened and promotion may proceed.
type SignupSession struct {
	PendingSignup
	Code      string    `json:"code"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
