package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenoli/gostack-gobarber/internal/model"
)

func TestListDayAvailability(t *testing.T) {
	now := time.Date(2020, 7, 24, 11, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	ctx := context.Background()

	_, err := f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 24, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	slots, err := f.service.ListDayAvailability(ctx, providerID, 2020, 7, 24)
	require.NoError(t, err)
	require.Len(t, slots, model.BusinessHoursPerDay)

	byHour := make(map[int]bool, len(slots))
	for i, slot := range slots {
		assert.Equal(t, model.BusinessHourStart+i, slot.Hour, "slots must be in hour order")
		byHour[slot.Hour] = slot.Available
	}

	// hours at or before the current time are gone
	assert.False(t, byHour[8])
	assert.False(t, byHour[10])
	assert.False(t, byHour[11])
	// the booked hour is gone, the surrounding free future hours are not
	assert.False(t, byHour[14])
	assert.True(t, byHour[12])
	assert.True(t, byHour[13])
	assert.True(t, byHour[15])
	assert.True(t, byHour[17])
}

func TestListDayAvailabilityAllFutureWhenDayEmpty(t *testing.T) {
	now := time.Date(2020, 7, 20, 11, 0, 0, 0, time.UTC)
	f := newFixture(now)

	slots, err := f.service.ListDayAvailability(context.Background(), uuid.New(), 2020, 7, 24)
	require.NoError(t, err)
	require.Len(t, slots, model.BusinessHoursPerDay)
	for _, slot := range slots {
		assert.True(t, slot.Available, "hour %d should be free on an empty future day", slot.Hour)
	}
}

func TestListDayAvailabilityPastDayFullyUnavailable(t *testing.T) {
	now := time.Date(2020, 7, 25, 11, 0, 0, 0, time.UTC)
	f := newFixture(now)

	slots, err := f.service.ListDayAvailability(context.Background(), uuid.New(), 2020, 7, 24)
	require.NoError(t, err)
	require.Len(t, slots, model.BusinessHoursPerDay)
	for _, slot := range slots {
		assert.False(t, slot.Available, "hour %d of a past day must be unavailable", slot.Hour)
	}
}

func TestListMonthAvailability(t *testing.T) {
	now := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(now)

	providerID := uuid.New()
	ctx := context.Background()

	// fill every business hour of July 20th
	for hour := model.BusinessHourStart; hour <= model.BusinessHourEnd; hour++ {
		_, err := f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
			ProviderID: providerID,
			Date:       time.Date(2020, 7, 20, hour, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	// one booking on the 21st leaves the day open
	_, err := f.service.CreateAppointment(ctx, uuid.New(), &model.CreateAppointmentRequest{
		ProviderID: providerID,
		Date:       time.Date(2020, 7, 21, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	entries, err := f.service.ListMonthAvailability(ctx, providerID, 2020, 7)
	require.NoError(t, err)
	require.Len(t, entries, 31)

	byDay := make(map[int]bool, len(entries))
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Day, "entries must cover every day in order")
		byDay[entry.Day] = entry.Available
	}

	assert.False(t, byDay[20])
	assert.True(t, byDay[21])
	assert.True(t, byDay[19])
}

func TestListMonthAvailabilityRespectsMonthLength(t *testing.T) {
	now := time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(now)

	// 2020 is a leap year
	entries, err := f.service.ListMonthAvailability(context.Background(), uuid.New(), 2020, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 29)

	entries, err = f.service.ListMonthAvailability(context.Background(), uuid.New(), 2021, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 28)
}
