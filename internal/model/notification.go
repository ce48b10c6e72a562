package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is an in-app message for a provider about a new booking
type Notification struct {
	ID          uuid.UUID          `db:"id" json:"id"`
	RecipientID uuid.UUID          `db:"recipient_id" json:"recipient_id"`
	Content     string             `db:"content" json:"content"`
	Status      NotificationStatus `db:"status" json:"status"`
	RetryCount  int                `db:"retry_count" json:"retry_count"`
	SentAt      *time.Time         `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// NotificationEvent is the broker payload for a dispatched notification
type NotificationEvent struct {
	ID             uuid.UUID `json:"id"`
	NotificationID uuid.UUID `json:"notification_id"`
	RecipientID    uuid.UUID `json:"recipient_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
