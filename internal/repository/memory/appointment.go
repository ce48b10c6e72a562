package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
)

// AppointmentRepository is an in-memory adapter used in tests. The mutex
// gives the same single-winner insert semantics the postgres unique index
// provides.
type AppointmentRepository struct {
	mu           sync.Mutex
	appointments []*model.Appointment
	byDate       map[string]*model.Appointment

	// call counters for cache behavior assertions
	FindAllInDayCalls int
	CreateCalls       int
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{byDate: make(map[string]*model.Appointment)}
}

func slotKey(providerID uuid.UUID, date time.Time) string {
	return providerID.String() + "@" + date.UTC().Format(time.RFC3339)
}

func (r *AppointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CreateCalls++

	key := slotKey(appointment.ProviderID, appointment.Date)
	if _, taken := r.byDate[key]; taken {
		return repository.ErrSlotTaken
	}

	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	stored := *appointment
	r.appointments = append(r.appointments, &stored)
	r.byDate[key] = &stored
	return nil
}

func (r *AppointmentRepository) FindByDate(_ context.Context, providerID uuid.UUID, date time.Time) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appointment, ok := r.byDate[slotKey(providerID, date)]; ok {
		found := *appointment
		return &found, nil
	}
	return nil, nil
}

func (r *AppointmentRepository) FindAllInMonthByProvider(_ context.Context, providerID uuid.UUID, year, month int) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []*model.Appointment{}
	for _, appointment := range r.appointments {
		if appointment.ProviderID != providerID {
			continue
		}
		if appointment.Date.Year() == year && int(appointment.Date.Month()) == month {
			found := *appointment
			result = append(result, &found)
		}
	}
	return result, nil
}

func (r *AppointmentRepository) FindAllInDayByProvider(_ context.Context, providerID uuid.UUID, year, month, day int) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.FindAllInDayCalls++

	result := []*model.Appointment{}
	for _, appointment := range r.appointments {
		if appointment.ProviderID != providerID {
			continue
		}
		if appointment.Date.Year() == year &&
			int(appointment.Date.Month()) == month &&
			appointment.Date.Day() == day {
			found := *appointment
			result = append(result, &found)
		}
	}
	return result, nil
}
