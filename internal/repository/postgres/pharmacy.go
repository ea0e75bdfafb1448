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

const medicationColumns = `id, name, form, strength, stock_quantity, unit_price_cents, created_at, updated_at`

const prescriptionSelect = `
	SELECT p.id, p.patient_id, p.admission_id, p.medication_id, m.name AS medication_name,
		p.dosage, p.frequency, p.duration_days, p.quantity, p.prescribed_by, p.status,
		p.dispensed_at, p.created_at, p.updated_at
	FROM prescriptions p
	JOIN medications m ON m.id = p.medication_id`

type pharmacyRepository struct {
	BaseRepository
}

func NewPharmacyRepository(db *sqlx.DB) repository.PharmacyRepository {
	return &pharmacyRepository{NewBaseRepository(db)}
}

func (r *pharmacyRepository) CreateMedication(ctx context.Context, medication *model.Medication) error {
	query := `
		INSERT INTO medications (
			id, name, form, strength, stock_quantity, unit_price_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if medication.ID == uuid.Nil {
		medication.ID = uuid.New()
	}
	now := time.Now().UTC()
	medication.CreatedAt = now
	medication.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		medication.ID,
		medication.Name,
		medication.Form,
		medication.Strength,
		medication.StockQuantity,
		medication.UnitPriceCents,
		medication.CreatedAt,
		medication.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", mapError(err))
	}
	return nil
}

func (r *pharmacyRepository) GetMedication(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	var medication model.Medication
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`
	if err := r.db.GetContext(ctx, &medication, query, id); err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", mapError(err))
	}
	return &medication, nil
}

func (r *pharmacyRepository) ListMedications(ctx context.Context) ([]*model.Medication, error) {
	medications := []*model.Medication{}
	query := `SELECT ` + medicationColumns + ` FROM medications ORDER BY name, strength`
	if err := r.db.SelectContext(ctx, &medications, query); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return medications, nil
}

func (r *pharmacyRepository) Restock(ctx context.Context, id uuid.UUID, quantity int) (*model.Medication, error) {
	query := `
		UPDATE medications
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + medicationColumns
	var medication model.Medication
	if err := r.db.GetContext(ctx, &medication, query, quantity, id); err != nil {
		return nil, fmt.Errorf("failed to restock medication: %w", mapError(err))
	}
	return &medication, nil
}

func (r *pharmacyRepository) CreatePrescription(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (
			id, patient_id, admission_id, medication_id, dosage, frequency,
			duration_days, quantity, prescribed_by, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	now := time.Now().UTC()
	prescription.CreatedAt = now
	prescription.UpdatedAt = now
	if prescription.Status == "" {
		prescription.Status = model.PrescriptionStatusActive
	}

	_, err := r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.PatientID,
		prescription.AdmissionID,
		prescription.MedicationID,
		prescription.Dosage,
		prescription.Frequency,
		prescription.DurationDays,
		prescription.Quantity,
		prescription.PrescribedBy,
		prescription.Status,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", mapError(err))
	}
	return nil
}

func (r *pharmacyRepository) GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var prescription model.Prescription
	if err := r.db.GetContext(ctx, &prescription, prescriptionSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", mapError(err))
	}
	return &prescription, nil
}

func (r *pharmacyRepository) ListPrescriptions(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error) {
	var c conditions
	if filters.PatientID != nil {
		c.add("p.patient_id = ?", *filters.PatientID)
	}
	if filters.Status != "" {
		c.add("p.status = ?", filters.Status)
	}

	prescriptions := []*model.Prescription{}
	query := prescriptionSelect + c.where() + ` ORDER BY p.created_at DESC`
	if err := r.db.SelectContext(ctx, &prescriptions, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *pharmacyRepository) Dispense(ctx context.Context, id uuid.UUID, at time.Time) (*model.Prescription, error) {
	var prescription model.Prescription
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &prescription, prescriptionSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id); err != nil {
			return mapError(err)
		}
		if prescription.Status != model.PrescriptionStatusActive {
			return repository.ErrAlreadyDispensed
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE medications
			SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			WHERE id = $2 AND stock_quantity >= $1`,
			prescription.Quantity, prescription.MedicationID)
		if err != nil {
			return mapError(err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrInsufficientStock
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE prescriptions
			SET status = $1, dispensed_at = $2, updated_at = $2
			WHERE id = $3`,
			model.PrescriptionStatusDispensed, at, id); err != nil {
			return err
		}

		prescription.Status = model.PrescriptionStatusDispensed
		prescription.DispensedAt = &at
		prescription.UpdatedAt = at
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispense prescription: %w", err)
	}
	return &prescription, nil
}
