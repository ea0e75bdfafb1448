package billing

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

type BillingService interface {
	CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error)
	RecordPayment(ctx context.Context, invoiceID uuid.UUID, req *model.PaymentRequest) (*model.Invoice, error)
	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error)
}

type Service struct {
	repo   repository.BillingRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.BillingRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateInvoice prices the line items server side. Amounts are integer cents.
func (s *Service) CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	invoice := &model.Invoice{
		Base:        model.Base{ID: uuid.New()},
		PatientID:   req.PatientID,
		AdmissionID: req.AdmissionID,
		Status:      model.InvoiceStatusUnpaid,
		DueDate:     req.DueDate,
		Items:       make([]model.InvoiceItem, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		amount, ok := lineAmount(item.Quantity, item.UnitPriceCents)
		if !ok || invoice.TotalCents > math.MaxInt64-amount {
			return nil, apperrors.BadRequest("invoice total is too large", nil)
		}
		invoice.Items = append(invoice.Items, model.InvoiceItem{
			ID:             uuid.New(),
			InvoiceID:      invoice.ID,
			Description:    strings.TrimSpace(item.Description),
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			AmountCents:    amount,
		})
		invoice.TotalCents += amount
	}
	if invoice.TotalCents <= 0 {
		return nil, apperrors.BadRequest("invoice total must be greater than zero", nil)
	}

	if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
		return nil, service.RepoError(err, "invoice")
	}

	s.logger.Info("invoice created",
		"invoice_id", invoice.ID.String(),
		"patient_id", invoice.PatientID.String(),
		"total_cents", invoice.TotalCents)
	return invoice, nil
}

func lineAmount(quantity int, unitPriceCents int64) (int64, bool) {
	if quantity <= 0 || unitPriceCents < 0 {
		return 0, false
	}
	if unitPriceCents > 0 && int64(quantity) > math.MaxInt64/unitPriceCents {
		return 0, false
	}
	return int64(quantity) * unitPriceCents, true
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "invoice")
	}
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "invoice")
	}
	return invoices, nil
}

// RecordPayment applies a payment. Paying more than the outstanding
// balance is rejected.
func (s *Service) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req *model.PaymentRequest) (*model.Invoice, error) {
	payment := &model.Payment{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		PaidAt:      s.now(),
	}

	invoice, err := s.repo.RecordPayment(ctx, payment)
	if err != nil {
		return nil, service.RepoError(err, "invoice")
	}

	s.logger.Info("payment recorded",
		"invoice_id", invoiceID.String(),
		"amount_cents", payment.AmountCents,
		"status", string(invoice.Status))
	return invoice, nil
}

func (s *Service) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error) {
	if _, err := s.repo.GetInvoice(ctx, invoiceID); err != nil {
		return nil, service.RepoError(err, "invoice")
	}
	payments, err := s.repo.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, service.RepoError(err, "payment")
	}
	return payments, nil
}
