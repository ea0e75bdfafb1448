package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const appointmentColumns = `id, patient_id, doctor_id, department, start_time, end_time, status,
	reason, cancel_reason, created_at, updated_at`

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, department, start_time, end_time,
			status, reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.Department,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Reason,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", mapError(err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", mapError(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments SET
			start_time = $1, end_time = $2, status = $3, reason = $4,
			cancel_reason = $5, updated_at = $6
		WHERE id = $7`
	appointment.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Reason,
		appointment.CancelReason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", mapError(err))
	}
	if err := requireRows(result); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var c conditions
	if filters.PatientID != nil {
		c.add("patient_id = ?", *filters.PatientID)
	}
	if filters.DoctorID != nil {
		c.add("doctor_id = ?", *filters.DoctorID)
	}
	if filters.Status != "" {
		c.add("status = ?", filters.Status)
	}
	if filters.From != nil {
		c.add("start_time >= ?", *filters.From)
	}
	if filters.To != nil {
		c.add("start_time < ?", *filters.To)
	}

	appointments := []*model.Appointment{}
	query := `SELECT ` + appointmentColumns + ` FROM appointments` + c.where() + ` ORDER BY start_time`
	if err := r.db.SelectContext(ctx, &appointments, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// CheckConflicts reports whether the doctor already has a scheduled
// appointment overlapping [startTime, endTime).
func (r *appointmentRepository) CheckConflicts(ctx context.Context, doctorID uuid.UUID, startTime, endTime time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND status = $2
			AND start_time < $4
			AND end_time > $3
			AND ($5::uuid IS NULL OR id <> $5)
		)`
	var conflict bool
	err := r.db.GetContext(ctx, &conflict, query, doctorID, model.AppointmentStatusScheduled, startTime, endTime, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment conflicts: %w", err)
	}
	return conflict, nil
}
