package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
)

// The appointments table carries a unique index on (provider_id, date) so
// concurrent bookings for the same slot resolve to a single winner.

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, provider_id, user_id, date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider_id, date) DO NOTHING
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ProviderID,
		appointment.UserID,
		appointment.Date,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrSlotTaken
	}
	return nil
}

func (r *appointmentRepository) FindByDate(ctx context.Context, providerID uuid.UUID, date time.Time) (*model.Appointment, error) {
	query := `
		SELECT id, provider_id, user_id, date, created_at, updated_at
		FROM appointments
		WHERE provider_id = $1 AND date = $2
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, providerID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment by date: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAllInMonthByProvider(ctx context.Context, providerID uuid.UUID, year, month int) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, user_id, date, created_at, updated_at
		FROM appointments
		WHERE provider_id = $1
		AND date_part('year', date) = $2
		AND date_part('month', date) = $3
		ORDER BY date ASC
	`
	appointments := []*model.Appointment{}
	err := r.db.SelectContext(ctx, &appointments, query, providerID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list month appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAllInDayByProvider(ctx context.Context, providerID uuid.UUID, year, month, day int) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, user_id, date, created_at, updated_at
		FROM appointments
		WHERE provider_id = $1
		AND date_part('year', date) = $2
		AND date_part('month', date) = $3
		AND date_part('day', date) = $4
		ORDER BY date ASC
	`
	appointments := []*model.Appointment{}
	err := r.db.SelectContext(ctx, &appointments, query, providerID, year, month, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list day appointments: %w", err)
	}
	return appointments, nil
}
