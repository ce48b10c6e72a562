package model

import (
	"time"

	"github.com/google/uuid"
)

// Business hours: bookings start on the hour, 8:00 through 17:00.
const (
	BusinessHourStart   = 8
	BusinessHourEnd     = 17
	BusinessHoursPerDay = BusinessHourEnd - BusinessHourStart + 1
)

// Appointment is a one-hour booking of a provider by a customer.
// Date is always truncated to the start of an hour; a provider holds
// at most one appointment per hour.
type Appointment struct {
	Base
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Date       time.Time `db:"date" json:"date"`
}

type CreateAppointmentRequest struct {
	ProviderID uuid.UUID `json:"provider_id" binding:"required" validate:"required"`
	Date       time.Time `json:"date" binding:"required" validate:"required"`
}

// AvailabilitySlot reports whether a single business hour of a day is bookable
type AvailabilitySlot struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

// MonthAvailabilityEntry reports whether a calendar day has any free business hour
type MonthAvailabilityEntry struct {
	Day       int  `json:"day"`
	Available bool `json:"available"`
}
