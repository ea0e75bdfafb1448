package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const admissionSelect = `
	SELECT a.id, a.patient_id, p.first_name || ' ' || p.last_name AS patient_name,
		a.ward_id, a.bed_id, a.admission_date, a.reason, a.attending_doctor, a.notes,
		a.discharged_at, a.created_at, a.updated_at
	FROM admissions a
	JOIN patients p ON p.id = a.patient_id`

type adtRepository struct {
	BaseRepository
}

func NewADTRepository(db *sqlx.DB) repository.ADTRepository {
	return &adtRepository{NewBaseRepository(db)}
}

func (r *adtRepository) WithTx(ctx context.Context, fn func(tx repository.ADTTx) error) error {
	return r.BaseRepository.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&adtTx{tx: tx})
	})
}

func (r *adtRepository) GetAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	var admission model.Admission
	if err := r.db.GetContext(ctx, &admission, admissionSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get admission: %w", mapError(err))
	}
	return &admission, nil
}

func (r *adtRepository) ListAdmissions(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error) {
	var c conditions
	if filters.WardID != nil {
		c.add("a.ward_id = ?", *filters.WardID)
	}
	if filters.PatientID != nil {
		c.add("a.patient_id = ?", *filters.PatientID)
	}
	if filters.From != nil {
		c.add("a.admission_date >= ?", *filters.From)
	}
	if filters.To != nil {
		c.add("a.admission_date < ?", *filters.To)
	}
	if filters.OpenOnly {
		c.addRaw("a.discharged_at IS NULL")
	}

	admissions := []*model.Admission{}
	query := admissionSelect + c.where() + ` ORDER BY a.admission_date DESC`
	if err := r.db.SelectContext(ctx, &admissions, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	return admissions, nil
}

func (r *adtRepository) ListTransfers(ctx context.Context, admissionID *uuid.UUID) ([]*model.Transfer, error) {
	var c conditions
	if admissionID != nil {
		c.add("admission_id = ?", *admissionID)
	}

	transfers := []*model.Transfer{}
	query := `
		SELECT id, admission_id, from_ward_id, from_bed_id, to_ward_id, to_bed_id,
			transfer_date, reason, created_at
		FROM transfers` + c.where() + ` ORDER BY transfer_date DESC`
	if err := r.db.SelectContext(ctx, &transfers, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}

func (r *adtRepository) ListDischarges(ctx context.Context, filters *model.DischargeFilters) ([]*model.Discharge, error) {
	var c conditions
	if filters.PatientID != nil {
		c.add("patient_id = ?", *filters.PatientID)
	}
	if filters.From != nil {
		c.add("discharge_date >= ?", *filters.From)
	}
	if filters.To != nil {
		c.add("discharge_date < ?", *filters.To)
	}

	discharges := []*model.Discharge{}
	query := `
		SELECT id, admission_id, patient_id, bed_id, discharge_date, notes, created_at
		FROM discharges` + c.where() + ` ORDER BY discharge_date DESC`
	if err := r.db.SelectContext(ctx, &discharges, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list discharges: %w", err)
	}
	return discharges, nil
}

func (r *adtRepository) Census(ctx context.Context) ([]*model.WardCensus, error) {
	query := `
		SELECT w.id AS ward_id, w.name AS ward_name, w.type AS ward_type,
			COUNT(b.id) AS total_beds,
			COUNT(a.id) AS occupied_beds,
			COUNT(b.id) - COUNT(a.id) AS free_beds
		FROM wards w
		LEFT JOIN beds b ON b.ward_id = w.id
		LEFT JOIN admissions a ON a.bed_id = b.id AND a.discharged_at IS NULL
		GROUP BY w.id, w.name, w.type
		ORDER BY w.name`

	census := []*model.WardCensus{}
	if err := r.db.SelectContext(ctx, &census, query); err != nil {
		return nil, fmt.Errorf("failed to compute census: %w", err)
	}
	return census, nil
}

// adtTx runs ADT statements on one open transaction.
type adtTx struct {
	tx *sqlx.Tx
}

func (t *adtTx) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	if err := t.tx.GetContext(ctx, &patient, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", mapError(err))
	}
	return &patient, nil
}

func (t *adtTx) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	var ward model.Ward
	query := `SELECT id, name, type, floor, created_at, updated_at FROM wards WHERE id = $1`
	if err := t.tx.GetContext(ctx, &ward, query, id); err != nil {
		return nil, fmt.Errorf("failed to get ward: %w", mapError(err))
	}
	return &ward, nil
}

// LockBed takes the row lock first and reads the occupant in a second
// statement, so the occupancy check sees anything committed while waiting
// for the lock.
func (t *adtTx) LockBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	var bed model.Bed
	query := `SELECT id, ward_id, number, created_at, updated_at FROM beds WHERE id = $1 FOR UPDATE`
	if err := t.tx.GetContext(ctx, &bed, query, id); err != nil {
		return nil, fmt.Errorf("failed to lock bed: %w", mapError(err))
	}

	var occupants []uuid.UUID
	query = `SELECT id FROM admissions WHERE bed_id = $1 AND discharged_at IS NULL`
	if err := t.tx.SelectContext(ctx, &occupants, query, id); err != nil {
		return nil, fmt.Errorf("failed to read bed occupant: %w", err)
	}
	if len(occupants) > 0 {
		bed.Occupied = true
		bed.AdmissionID = &occupants[0]
	}
	return &bed, nil
}

func (t *adtTx) LockAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	var admission model.Admission
	if err := t.tx.GetContext(ctx, &admission, admissionSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id); err != nil {
		return nil, fmt.Errorf("failed to lock admission: %w", mapError(err))
	}
	return &admission, nil
}

func (t *adtTx) LatestTransferDate(ctx context.Context, admissionID uuid.UUID) (*time.Time, error) {
	var latest sql.NullTime
	query := `SELECT MAX(transfer_date) FROM transfers WHERE admission_id = $1`
	if err := t.tx.GetContext(ctx, &latest, query, admissionID); err != nil {
		return nil, fmt.Errorf("failed to read latest transfer date: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

func (t *adtTx) CreateAdmission(ctx context.Context, admission *model.Admission) error {
	query := `
		INSERT INTO admissions (
			id, patient_id, ward_id, bed_id, admission_date, reason,
			attending_doctor, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := t.tx.ExecContext(ctx, query,
		admission.ID,
		admission.PatientID,
		admission.WardID,
		admission.BedID,
		admission.AdmissionDate,
		admission.Reason,
		admission.AttendingDoctor,
		admission.Notes,
		admission.CreatedAt,
		admission.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admission: %w", mapError(err))
	}
	return nil
}

func (t *adtTx) UpdateAdmission(ctx context.Context, admission *model.Admission) error {
	query := `
		UPDATE admissions SET
			ward_id = $1, bed_id = $2, reason = $3, attending_doctor = $4,
			notes = $5, discharged_at = $6, updated_at = $7
		WHERE id = $8`
	result, err := t.tx.ExecContext(ctx, query,
		admission.WardID,
		admission.BedID,
		admission.Reason,
		admission.AttendingDoctor,
		admission.Notes,
		admission.DischargedAt,
		admission.UpdatedAt,
		admission.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update admission: %w", mapError(err))
	}
	if err := requireRows(result); err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}
	return nil
}

func (t *adtTx) CreateTransfer(ctx context.Context, transfer *model.Transfer) error {
	query := `
		INSERT INTO transfers (
			id, admission_id, from_ward_id, from_bed_id, to_ward_id, to_bed_id,
			transfer_date, reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := t.tx.ExecContext(ctx, query,
		transfer.ID,
		transfer.AdmissionID,
		transfer.FromWardID,
		transfer.FromBedID,
		transfer.ToWardID,
		transfer.ToBedID,
		transfer.TransferDate,
		transfer.Reason,
		transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", mapError(err))
	}
	return nil
}

func (t *adtTx) CreateDischarge(ctx context.Context, discharge *model.Discharge) error {
	query := `
		INSERT INTO discharges (
			id, admission_id, patient_id, bed_id, discharge_date, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := t.tx.ExecContext(ctx, query,
		discharge.ID,
		discharge.AdmissionID,
		discharge.PatientID,
		discharge.BedID,
		discharge.DischargeDate,
		discharge.Notes,
		discharge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create discharge: %w", mapError(err))
	}
	return nil
}

func (t *adtTx) EnqueueEvent(ctx context.Context, event *model.OutboxEvent) error {
	return insertOutboxEvent(ctx, t.tx, event)
}
