package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-clinic-api/internal/model"
	"github.com/jwalitptl/dental-clinic-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_name, phone, appointment_date, appointment_time, procedure, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientName,
		appointment.Phone,
		appointment.AppointmentDate,
		appointment.AppointmentTime,
		appointment.Procedure,
		appointment.Status,
		appointment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// List orders by date then by the raw time string. Lexicographic order on
// appointment_time is chronological only for zero-padded 24-hour "HH:MM".
func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_name, phone, appointment_date, appointment_time, procedure, status, created_at
		FROM appointments
		ORDER BY appointment_date ASC, appointment_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $1
		WHERE id = $2
		RETURNING id, patient_name, phone, appointment_date, appointment_time, procedure, status, created_at
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, status, id); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}
