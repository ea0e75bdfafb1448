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

const invoiceColumns = `id, patient_id, admission_id, status, total_cents, paid_cents, due_date,
	created_at, updated_at`

type billingRepository struct {
	BaseRepository
}

func NewBillingRepository(db *sqlx.DB) repository.BillingRepository {
	return &billingRepository{NewBaseRepository(db)}
}

// CreateInvoice inserts the invoice and its items together. Item amounts and
// the invoice total must already be computed.
func (r *billingRepository) CreateInvoice(ctx context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (
				id, patient_id, admission_id, status, total_cents, paid_cents,
				due_date, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			invoice.ID,
			invoice.PatientID,
			invoice.AdmissionID,
			invoice.Status,
			invoice.TotalCents,
			invoice.PaidCents,
			invoice.DueDate,
			invoice.CreatedAt,
			invoice.UpdatedAt,
		)
		if err != nil {
			return mapError(err)
		}

		for i := range invoice.Items {
			item := &invoice.Items[i]
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			item.InvoiceID = invoice.ID
			_, err := tx.ExecContext(ctx, `
				INSERT INTO invoice_items (
					id, invoice_id, description, quantity, unit_price_cents, amount_cents
				) VALUES ($1, $2, $3, $4, $5, $6)`,
				item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPriceCents, item.AmountCents)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *billingRepository) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.GetContext(ctx, &invoice, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", mapError(err))
	}

	items := []model.InvoiceItem{}
	query := `
		SELECT id, invoice_id, description, quantity, unit_price_cents, amount_cents
		FROM invoice_items WHERE invoice_id = $1 ORDER BY description`
	if err := r.db.SelectContext(ctx, &items, query, id); err != nil {
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}
	invoice.Items = items
	return &invoice, nil
}

func (r *billingRepository) ListInvoices(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	var c conditions
	if filters.PatientID != nil {
		c.add("patient_id = ?", *filters.PatientID)
	}
	if filters.Status != "" {
		c.add("status = ?", filters.Status)
	}

	invoices := []*model.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + c.where() + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &invoices, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *billingRepository) RecordPayment(ctx context.Context, payment *model.Payment) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &invoice, query, payment.InvoiceID); err != nil {
			return mapError(err)
		}
		if invoice.Status == model.InvoiceStatusPaid {
			return repository.ErrInvoicePaid
		}
		if payment.AmountCents > invoice.BalanceCents() {
			return repository.ErrOverpayment
		}

		if payment.ID == uuid.Nil {
			payment.ID = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payments (id, invoice_id, amount_cents, method, paid_at)
			VALUES ($1, $2, $3, $4, $5)`,
			payment.ID, payment.InvoiceID, payment.AmountCents, payment.Method, payment.PaidAt); err != nil {
			return mapError(err)
		}

		invoice.PaidCents += payment.AmountCents
		invoice.Status = model.StatusFor(invoice.TotalCents, invoice.PaidCents)
		invoice.UpdatedAt = payment.PaidAt
		_, err := tx.ExecContext(ctx, `
			UPDATE invoices SET paid_cents = $1, status = $2, updated_at = $3
			WHERE id = $4`,
			invoice.PaidCents, invoice.Status, invoice.UpdatedAt, invoice.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return &invoice, nil
}

func (r *billingRepository) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error) {
	payments := []*model.Payment{}
	query := `
		SELECT id, invoice_id, amount_cents, method, paid_at
		FROM payments WHERE invoice_id = $1 ORDER BY paid_at`
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
