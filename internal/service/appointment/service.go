package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/cache"
	"github.com/chenoli/gostack-gobarber/internal/clock"
	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
	"github.com/chenoli/gostack-gobarber/internal/service/notification"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/metrics"
)

type Service struct {
	repo     repository.AppointmentRepository
	notifier notification.Service
	cache    cache.Provider
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewService(repo repository.AppointmentRepository, notifier notification.Service, cacheProvider cache.Provider, clk clock.Clock, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		cache:    cacheProvider,
		clock:    clk,
		metrics:  m,
	}
}

// BookingResult carries the committed appointment plus warnings from
// best-effort side effects. A non-empty Warnings slice never means the
// booking failed; the appointment is already persisted.
type BookingResult struct {
	Appointment *model.Appointment `json:"appointment"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// CreateAppointment books a one-hour slot for userID with a provider.
// Checks run in a fixed order and short-circuit on the first failure:
// past date, self booking, business hours, slot taken. Side effects
// (notification, cache invalidation) happen only after the store commit
// and are never rolled back.
func (s *Service) CreateAppointment(ctx context.Context, userID uuid.UUID, req *model.CreateAppointmentRequest) (*BookingResult, error) {
	// Normalize to UTC before anything reads Hour(): business hours,
	// availability and cache keys all work on the canonical zone, so a
	// request carrying its own offset cannot slip past the window.
	appointmentDate := req.Date.UTC().Truncate(time.Hour)

	if !appointmentDate.After(s.clock.Now()) {
		s.countRejection("past_date")
		return nil, apperrors.Validation("cannot create an appointment on a past date")
	}

	if userID == req.ProviderID {
		s.countRejection("self_booking")
		return nil, apperrors.Validation("cannot create an appointment with yourself")
	}

	hour := appointmentDate.Hour()
	if hour < model.BusinessHourStart || hour > model.BusinessHourEnd {
		s.countRejection("outside_business_hours")
		return nil, apperrors.Validation("appointments can only be created between 8am and 5pm")
	}

	existing, err := s.repo.FindByDate(ctx, req.ProviderID, appointmentDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if existing != nil {
		s.countConflict()
		return nil, apperrors.Conflict("this hour is already booked")
	}

	appointment := &model.Appointment{
		ProviderID: req.ProviderID,
		UserID:     userID,
		Date:       appointmentDate,
	}

	// The store insert is the authoritative uniqueness check; the lookup
	// above only short-circuits the common case. Two concurrent bookings
	// for the same slot both reach here and exactly one wins.
	if err := s.repo.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.countConflict()
			return nil, apperrors.Conflict("this hour is already booked")
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}

	result := &BookingResult{Appointment: appointment}

	content := fmt.Sprintf("New appointment on %s at %dh",
		appointmentDate.Format("02/01/2006"), appointmentDate.Hour())
	if err := s.notifier.Notify(ctx, req.ProviderID, content); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("notification not enqueued: %v", err))
	}

	key := cache.ProviderAppointmentsKey(
		req.ProviderID,
		appointmentDate.Year(),
		int(appointmentDate.Month()),
		appointmentDate.Day(),
	)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("cache not invalidated: %v", err))
	}

	return result, nil
}

// ListProviderAppointments returns a provider's appointments for one day
// through the read-through cache. A hit returns the cached snapshot
// verbatim without touching the store; a miss populates the cache even
// when the day is empty.
func (s *Service) ListProviderAppointments(ctx context.Context, providerID uuid.UUID, year, month, day int) ([]*model.Appointment, error) {
	key := cache.ProviderAppointmentsKey(providerID, year, month, day)

	appointments := []*model.Appointment{}
	found, err := s.cache.Recover(ctx, key, &appointments)
	if err == nil && found {
		if s.metrics != nil {
			s.metrics.CacheHits.WithLabelValues(key.Namespace()).Inc()
		}
		return appointments, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.WithLabelValues(key.Namespace()).Inc()
	}

	appointments, err = s.repo.FindAllInDayByProvider(ctx, providerID, year, month, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	if err := s.cache.Save(ctx, key, appointments); err != nil {
		return nil, fmt.Errorf("failed to cache appointments: %w", err)
	}

	return appointments, nil
}

func (s *Service) countRejection(reason string) {
	if s.metrics != nil {
		s.metrics.BookingRejected.WithLabelValues(reason).Inc()
	}
}

func (s *Service) countConflict() {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
}
