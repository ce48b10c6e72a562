package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
)

// NotificationRepository is an in-memory adapter used in tests
type NotificationRepository struct {
	mu            sync.Mutex
	notifications []*model.Notification

	// FailCreate forces Create to fail, for side-effect warning tests
	FailCreate error
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		return r.FailCreate
	}

	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	stored := *notification
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *NotificationRepository) ListPending(_ context.Context, limit int) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []*model.Notification{}
	for _, notification := range r.notifications {
		if notification.Status != model.NotificationStatusPending {
			continue
		}
		found := *notification
		result = append(result, &found)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *NotificationRepository) Update(_ context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.notifications {
		if existing.ID == notification.ID {
			notification.UpdatedAt = time.Now()
			stored := *notification
			r.notifications[i] = &stored
			return nil
		}
	}
	return repository.ErrNotFound
}

// All returns every stored notification, for assertions
func (r *NotificationRepository) All() []*model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*model.Notification, len(r.notifications))
	copy(result, r.notifications)
	return result
}
