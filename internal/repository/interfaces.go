package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
)

// ErrSlotTaken is returned by AppointmentRepository.Create when another
// appointment already holds the same provider+hour. The insert must be
// atomic: concurrent creates for the same slot yield exactly one winner.
var ErrSlotTaken = errors.New("appointment slot already taken")

// ErrNotFound is returned when a queried entity does not exist
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	// AppointmentRepository owns the authoritative appointment collection
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		FindByDate(ctx context.Context, providerID uuid.UUID, date time.Time) (*model.Appointment, error)
		FindAllInMonthByProvider(ctx context.Context, providerID uuid.UUID, year, month int) ([]*model.Appointment, error)
		FindAllInDayByProvider(ctx context.Context, providerID uuid.UUID, year, month, day int) ([]*model.Appointment, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
		FindByEmail(ctx context.Context, email string) (*model.User, error)
		FindProviders(ctx context.Context, exceptUserID uuid.UUID) ([]*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		ListPending(ctx context.Context, limit int) ([]*model.Notification, error)
		Update(ctx context.Context, notification *model.Notification) error
	}

	TokenRepository interface {
		Generate(ctx context.Context, userID uuid.UUID) (*model.UserToken, error)
		FindByToken(ctx context.Context, token string) (*model.UserToken, error)
		Invalidate(ctx context.Context, token string) error
	}
)
