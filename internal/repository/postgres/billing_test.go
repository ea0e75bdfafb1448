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

var invoiceRowColumns = []string{
	"id", "patient_id", "admission_id", "status", "total_cents", "paid_cents", "due_date", "created_at", "updated_at",
}

func invoiceRow(id uuid.UUID, total, paid int64, status model.InvoiceStatus) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(invoiceRowColumns).
		AddRow(id.String(), uuid.NewString(), nil, string(status), total, paid, nil, now, now)
}

func TestBillingRepository_RecordPartialPayment(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBillingRepository(db)

	invoiceID := uuid.New()
	payment := &model.Payment{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		AmountCents: 4000,
		Method:      "card",
		PaidAt:      time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM invoices WHERE id = $1 FOR UPDATE")).
		WithArgs(invoiceID).
		WillReturnRows(invoiceRow(invoiceID, 10000, 1000, model.InvoiceStatusPartiallyPaid))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(payment.ID, invoiceID, int64(4000), "card", payment.PaidAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET paid_cents")).
		WithArgs(int64(5000), model.InvoiceStatusPartiallyPaid, payment.PaidAt, invoiceID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	invoice, err := repo.RecordPayment(context.Background(), payment)

	require.NoError(t, err)
	assert.Equal(t, int64(5000), invoice.PaidCents)
	assert.Equal(t, int64(5000), invoice.BalanceCents())
	assert.Equal(t, model.InvoiceStatusPartiallyPaid, invoice.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingRepository_RejectsOverpayment(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBillingRepository(db)

	invoiceID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(invoiceID).
		WillReturnRows(invoiceRow(invoiceID, 10000, 9000, model.InvoiceStatusPartiallyPaid))
	mock.ExpectRollback()

	_, err := repo.RecordPayment(context.Background(), &model.Payment{
		InvoiceID:   invoiceID,
		AmountCents: 1001,
		Method:      "cash",
		PaidAt:      time.Now(),
	})

	assert.ErrorIs(t, err, repository.ErrOverpayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingRepository_CreateInvoiceWritesItems(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBillingRepository(db)

	invoice := &model.Invoice{
		PatientID:  uuid.New(),
		Status:     model.InvoiceStatusUnpaid,
		TotalCents: 2500,
		Items: []model.InvoiceItem{
			{Description: "Bed day", Quantity: 2, UnitPriceCents: 1000, AmountCents: 2000},
			{Description: "Dressing", Quantity: 1, UnitPriceCents: 500, AmountCents: 500},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoices")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoice_items")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoice_items")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateInvoice(context.Background(), invoice)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, invoice.ID)
	for _, item := range invoice.Items {
		assert.Equal(t, invoice.ID, item.InvoiceID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
