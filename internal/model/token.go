package model

import (
	"time"

	"github.com/google/uuid"
)

// UserToken is a password-reset token; valid for two hours after creation
type UserToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Token     string    `db:"token" json:"token"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ResetTokenTTL is how long a password-reset token stays valid
const ResetTokenTTL = 2 * time.Hour
