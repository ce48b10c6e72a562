package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
)

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, content, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.RecipientID,
		notification.Content,
		notification.Status,
		notification.RetryCount,
		notification.CreatedAt,
		notification.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListPending(ctx context.Context, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, recipient_id, content, status, retry_count, sent_at, created_at, updated_at
		FROM notifications
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	notifications := []*model.Notification{}
	err := r.db.SelectContext(ctx, &notifications, query, model.NotificationStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) Update(ctx context.Context, notification *model.Notification) error {
	query := `
		UPDATE notifications
		SET status = $1, retry_count = $2, sent_at = $3, updated_at = $4
		WHERE id = $5
	`
	notification.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		notification.Status,
		notification.RetryCount,
		notification.SentAt,
		notification.UpdatedAt,
		notification.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
