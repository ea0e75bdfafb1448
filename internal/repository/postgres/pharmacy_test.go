package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

var prescriptionRowColumns = []string{
	"id", "patient_id", "admission_id", "medication_id", "medication_name", "dosage", "frequency",
	"duration_days", "quantity", "prescribed_by", "status", "dispensed_at", "created_at", "updated_at",
}

func prescriptionRow(id, medicationID uuid.UUID, quantity int, status model.PrescriptionStatus) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(prescriptionRowColumns).AddRow(
		id.String(), uuid.NewString(), nil, medicationID.String(), "Amoxicillin", "500mg", "tid",
		7, quantity, "Dr. Grey", string(status), nil, now, now,
	)
}

func TestPharmacyRepository_Dispense(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPharmacyRepository(db)

	id, medicationID := uuid.New(), uuid.New()
	at := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF p")).
		WithArgs(id).
		WillReturnRows(prescriptionRow(id, medicationID, 21, model.PrescriptionStatusActive))
	mock.ExpectExec(regexp.QuoteMeta("SET stock_quantity = stock_quantity - $1")).
		WithArgs(21, medicationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE prescriptions")).
		WithArgs(model.PrescriptionStatusDispensed, at, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	prescription, err := repo.Dispense(context.Background(), id, at)

	require.NoError(t, err)
	assert.Equal(t, model.PrescriptionStatusDispensed, prescription.Status)
	require.NotNil(t, prescription.DispensedAt)
	assert.Equal(t, at, *prescription.DispensedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPharmacyRepository_DispenseInsufficientStock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPharmacyRepository(db)

	id, medicationID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF p")).
		WithArgs(id).
		WillReturnRows(prescriptionRow(id, medicationID, 500, model.PrescriptionStatusActive))
	mock.ExpectExec(regexp.QuoteMeta("SET stock_quantity = stock_quantity - $1")).
		WithArgs(500, medicationID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Dispense(context.Background(), id, time.Now())

	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPharmacyRepository_DispenseTwice(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPharmacyRepository(db)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF p")).
		WithArgs(id).
		WillReturnRows(prescriptionRow(id, uuid.New(), 1, model.PrescriptionStatusDispensed))
	mock.ExpectRollback()

	_, err := repo.Dispense(context.Background(), id, time.Now())

	assert.ErrorIs(t, err, repository.ErrAlreadyDispensed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPharmacyRepository_Restock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPharmacyRepository(db)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SET stock_quantity = stock_quantity + $1")).
		WithArgs(50, id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "form", "strength", "stock_quantity", "unit_price_cents", "created_at", "updated_at",
		}).AddRow(id.String(), "Paracetamol", "tablet", "500mg", 80, 12, now, now))

	medication, err := repo.Restock(context.Background(), id, 50)

	require.NoError(t, err)
	assert.Equal(t, 80, medication.StockQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
