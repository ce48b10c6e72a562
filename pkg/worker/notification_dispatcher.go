package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
	"github.com/chenoli/gostack-gobarber/pkg/logger"
	"github.com/chenoli/gostack-gobarber/pkg/messaging"
	"github.com/chenoli/gostack-gobarber/pkg/metrics"
)

const notificationChannel = "notifications"

type NotificationDispatcherConfig struct {
	BatchSize    int
	PollInterval time.Duration
	MaxRetries   int
}

// NotificationDispatcher drains pending notifications and publishes them
// to the broker. Booking only enqueues; delivery happens here.
type NotificationDispatcher struct {
	repo    repository.NotificationRepository
	broker  messaging.Broker
	config  NotificationDispatcherConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewNotificationDispatcher(
	repo repository.NotificationRepository,
	broker messaging.Broker,
	config NotificationDispatcherConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *NotificationDispatcher {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}

	return &NotificationDispatcher{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  log,
		metrics: m,
	}
}

func (d *NotificationDispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("Starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down notification dispatcher")
			return
		case <-ticker.C:
			if err := d.dispatchBatch(ctx); err != nil {
				d.logger.Error(err, "Failed to dispatch notifications")
			}
		}
	}
}

func (d *NotificationDispatcher) dispatchBatch(ctx context.Context) error {
	pending, err := d.repo.ListPending(ctx, d.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending notifications: %w", err)
	}

	for _, notification := range pending {
		if err := d.dispatch(ctx, notification); err != nil {
			d.handleFailure(ctx, notification, err)
			continue
		}

		now := time.Now()
		notification.Status = model.NotificationStatusSent
		notification.SentAt = &now
		if err := d.repo.Update(ctx, notification); err != nil {
			d.logger.Error(err, "Failed to mark notification sent",
				"notification_id", notification.ID)
			continue
		}
		if d.metrics != nil {
			d.metrics.NotificationsDispatched.Inc()
		}
	}
	return nil
}

func (d *NotificationDispatcher) dispatch(ctx context.Context, notification *model.Notification) error {
	event := &model.NotificationEvent{
		ID:             uuid.New(),
		NotificationID: notification.ID,
		RecipientID:    notification.RecipientID,
		Content:        notification.Content,
		CreatedAt:      notification.CreatedAt,
	}
	return d.broker.Publish(ctx, notificationChannel, event)
}

func (d *NotificationDispatcher) handleFailure(ctx context.Context, notification *model.Notification, dispatchErr error) {
	notification.RetryCount++
	if notification.RetryCount >= d.config.MaxRetries {
		notification.Status = model.NotificationStatusFailed
	}

	if err := d.repo.Update(ctx, notification); err != nil {
		d.logger.Error(err, "Failed to record notification failure",
			"notification_id", notification.ID)
		return
	}

	if d.metrics != nil {
		d.metrics.NotificationsFailed.Inc()
	}
	d.logger.Error(dispatchErr, "Failed to publish notification",
		"notification_id", notification.ID,
		"retry_count", notification.RetryCount)
}
