package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenoli/gostack-gobarber/internal/cache"
	"github.com/chenoli/gostack-gobarber/internal/cache/local"
	"github.com/chenoli/gostack-gobarber/internal/clock"
	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository/memory"
	"github.com/chenoli/gostack-gobarber/internal/service/notification"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
)

type fixture struct {
	service       *Service
	repo          *memory.AppointmentRepository
	notifications *memory.NotificationRepository
	cache         *local.Provider
}

func newFixture(now time.Time) *fixture {
	repo := memory.NewAppointmentRepository()
	notifications := memory.NewNotificationRepository()
	cacheProvider := local.NewProvider()
	notifier := notification.NewService(notifications, nil)

	return &fixture{
		service:       NewService(repo, notifier, cacheProvider, clock.Fixed(now), nil),
		repo:          repo,
		notifications: notifications,
		cache:         cacheProvider,
	}
}

func TestCreateAppointment(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	userID := uuid.New()
	providerID := uuid.New()

	result, err := f.service.CreateAppointment(context.Background(), userID, &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 24, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Appointment)
	assert.Empty(t, result.Warnings)
	assert.NotEqual(t, uuid.Nil, result.Appointment.ID)
	assert.Equal(t, providerID, result.Appointment.ProviderID)
	assert.Equal(t, userID, result.Appointment.UserID)
	assert.Equal(t, 13, result.Appointment.Date.Hour())

	// the provider got a pending notification with the formatted date
	all := f.notifications.All()
	require.Len(t, all, 1)
	assert.Equal(t, providerID, all[0].RecipientID)
	assert.Equal(t, "New appointment on 24/07/2020 at 13h", all[0].Content)
	assert.Equal(t, model.NotificationStatusPending, all[0].Status)
}

func TestCreateAppointmentTruncatesToHour(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	result, err := f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: uuid.New(),
		Date:       time.Date(2020, 7, 24, 13, 25, 42, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 7, 24, 13, 0, 0, 0, time.UTC), result.Appointment.Date)
}

func TestCreateAppointmentRejectsPastDate(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	_, err := f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: uuid.New(),
		Date:       time.Date(2020, 7, 24, 9, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	// a slot equal to the current instant is also in the past
	_, err = f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: uuid.New(),
		Date:       now,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	assert.Zero(t, f.repo.CreateCalls)
}

func TestCreateAppointmentRejectsSelfBooking(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	userID := uuid.New()
	_, err := f.service.CreateAppointment(context.Background(), userID, &model.CreateAppointmentRequest{
		ProviderID: userID,
		Date:       time.Date(2020, 7, 24, 13, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "yourself")
}

func TestCreateAppointmentBusinessHours(t *testing.T) {
	now := time.Date(2020, 7, 24, 0, 30, 0, 0, time.UTC)
	f := newFixture(now)

	userID := uuid.New()
	providerID := uuid.New()

	book := func(hour int) error {
		_, err := f.service.CreateAppointment(context.Background(), userID, &model.CreateAppointmentRequest{
			ProviderID: providerID,
			Date:       time.Date(2020, 7, 24, hour, 0, 0, 0, time.UTC),
		})
		return err
	}

	err := book(7)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	err = book(18)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	assert.NoError(t, book(8))
	assert.NoError(t, book(17))
}

func TestCreateAppointmentNormalizesOffsetDates(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	ctx := context.Background()
	brt := time.FixedZone("BRT", -3*60*60)

	// 17:00-03:00 is 20:00 UTC; the local wall clock must not open the window
	_, err := f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 24, 17, 0, 0, 0, brt),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, f.repo.CreateCalls)

	// 10:00-03:00 is 13:00 UTC; it books and is stored canonically
	result, err := f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 24, 10, 0, 0, 0, brt),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 7, 24, 13, 0, 0, 0, time.UTC), result.Appointment.Date)

	// availability consumes the real instant, not the request's wall clock
	slots, err := f.service.ListDayAvailability(ctx, providerID, 2020, 7, 24)
	require.NoError(t, err)
	byHour := make(map[int]bool, len(slots))
	for _, slot := range slots {
		byHour[slot.Hour] = slot.Available
	}
	assert.False(t, byHour[13])
	assert.True(t, byHour[17])

	// the offset spelling of the same instant conflicts with it
	_, err = f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 24, 13, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateAppointmentRejectsBookedSlot(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	date := time.Date(2020, 7, 24, 14, 0, 0, 0, time.UTC)

	_, err := f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       date,
	})
	require.NoError(t, err)

	_, err = f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       date,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// the same hour with a different provider is still free
	_, err = f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: uuid.New(),
		Date:       date,
	})
	assert.NoError(t, err)
}

func TestCreateAppointmentValidationOrder(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	// a past self booking outside business hours fails the past-date
	// check first
	userID := uuid.New()
	_, err := f.service.CreateAppointment(context.Background(), userID, &model.CreateAppointmentRequest{
		ProviderID: userID,
		Date:       time.Date(2020, 7, 23, 3, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "past date")

	// a future self booking outside business hours fails on self booking
	_, err = f.service.CreateAppointment(context.Background(), userID, &model.CreateAppointmentRequest{
		ProviderID: userID,
		Date:       time.Date(2020, 7, 25, 3, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yourself")
}

func TestCreateAppointmentConcurrentSingleWinner(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	date := time.Date(2020, 7, 24, 15, 0, 0, 0, time.UTC)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
				ProviderID: providerID,
				Date:       date,
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, apperrors.IsConflict(err), "losing attempt must conflict, got %v", err)
	}
	assert.Equal(t, 1, winners)

	stored, err := f.repo.FindAllInDayByProvider(context.Background(), providerID, 2020, 7, 24)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateAppointmentWarnsWhenNotificationFails(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.notifications.FailCreate = errors.New("notifications table unavailable")

	result, err := f.service.CreateAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: uuid.New(),
		Date:       time.Date(2020, 7, 24, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Appointment)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "notification not enqueued")

	// the booking itself committed
	assert.Equal(t, 1, f.repo.CreateCalls)
}

func TestCreateAppointmentInvalidatesDayCache(t *testing.T) {
	now := time.Date(2020, 7, 24, 10, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	ctx := context.Background()

	// warm the cache for the day
	_, err := f.service.ListProviderAppointments(ctx, providerID, 2020, 7, 24)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.FindAllInDayCalls)

	_, err = f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 24, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// the next listing misses the cache and sees the new booking
	appointments, err := f.service.ListProviderAppointments(ctx, providerID, 2020, 7, 24)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.FindAllInDayCalls)
	require.Len(t, appointments, 1)
	assert.Equal(t, 13, appointments[0].Date.Hour())
}

func TestListProviderAppointmentsReadThrough(t *testing.T) {
	now := time.Date(2020, 7, 24, 6, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	ctx := context.Background()

	_, err := f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 24, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	first, err := f.service.ListProviderAppointments(ctx, providerID, 2020, 7, 24)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, f.repo.FindAllInDayCalls)

	// the second call is served from the cache without a store query
	second, err := f.service.ListProviderAppointments(ctx, providerID, 2020, 7, 24)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, f.repo.FindAllInDayCalls)
}

func TestListProviderAppointmentsCachesEmptyDay(t *testing.T) {
	now := time.Date(2020, 7, 24, 6, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	ctx := context.Background()

	first, err := f.service.ListProviderAppointments(ctx, providerID, 2021, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, first)
	assert.Equal(t, 1, f.repo.FindAllInDayCalls)

	second, err := f.service.ListProviderAppointments(ctx, providerID, 2021, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 1, f.repo.FindAllInDayCalls)
}

func TestListProviderAppointmentsCacheKeyIsDayScoped(t *testing.T) {
	now := time.Date(2020, 7, 24, 6, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	ctx := context.Background()

	var cached []*model.Appointment
	_, err := f.service.ListProviderAppointments(ctx, providerID, 2020, 7, 24)
	require.NoError(t, err)

	found, err := f.cache.Recover(ctx, cache.ProviderAppointmentsKey(providerID, 2020, 7, 24), &cached)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = f.cache.Recover(ctx, cache.ProviderAppointmentsKey(providerID, 2020, 7, 25), &cached)
	require.NoError(t, err)
	assert.False(t, found)
}
