package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
)

// ListDayAvailability reports each business hour of a day for a provider.
// An hour is unavailable when it is already booked or when it is not
// strictly in the future. Always returns one slot per business hour, in
// hour order.
func (s *Service) ListDayAvailability(ctx context.Context, providerID uuid.UUID, year, month, day int) ([]model.AvailabilitySlot, error) {
	appointments, err := s.repo.FindAllInDayByProvider(ctx, providerID, year, month, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list day appointments: %w", err)
	}

	booked := make(map[int]bool, len(appointments))
	for _, appointment := range appointments {
		booked[appointment.Date.UTC().Hour()] = true
	}

	now := s.clock.Now()

	slots := make([]model.AvailabilitySlot, 0, model.BusinessHoursPerDay)
	for hour := model.BusinessHourStart; hour <= model.BusinessHourEnd; hour++ {
		// candidate hours live in UTC, the zone bookings are stored in
		candidate := time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
		slots = append(slots, model.AvailabilitySlot{
			Hour:      hour,
			Available: !booked[hour] && candidate.After(now),
		})
	}
	return slots, nil
}

// ListMonthAvailability reports each calendar day of a month for a
// provider. A day is unavailable only when every business hour is booked.
func (s *Service) ListMonthAvailability(ctx context.Context, providerID uuid.UUID, year, month int) ([]model.MonthAvailabilityEntry, error) {
	appointments, err := s.repo.FindAllInMonthByProvider(ctx, providerID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list month appointments: %w", err)
	}

	bookedHours := make(map[int]int)
	for _, appointment := range appointments {
		bookedHours[appointment.Date.UTC().Day()]++
	}

	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	entries := make([]model.MonthAvailabilityEntry, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		entries = append(entries, model.MonthAvailabilityEntry{
			Day:       day,
			Available: bookedHours[day] < model.BusinessHoursPerDay,
		})
	}
	return entries, nil
}
