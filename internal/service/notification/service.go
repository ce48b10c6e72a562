package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
	"github.com/chenoli/gostack-gobarber/pkg/metrics"
)

// Service enqueues in-app notifications. Delivery happens out of band in
// the dispatch worker; callers treat Notify as fire-and-forget.
type Service interface {
	Notify(ctx context.Context, recipientID uuid.UUID, content string) error
}

type service struct {
	repo    repository.NotificationRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, m *metrics.Metrics) Service {
	return &service{repo: repo, metrics: m}
}

func (s *service) Notify(ctx context.Context, recipientID uuid.UUID, content string) error {
	if content == "" {
		return fmt.Errorf("content is required")
	}

	notification := &model.Notification{
		RecipientID: recipientID,
		Content:     content,
		Status:      model.NotificationStatusPending,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsEnqueued.Inc()
	}
	return nil
}
