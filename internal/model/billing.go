package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

type Invoice struct {
	Base
	PatientID   uuid.UUID     `db:"patient_id" json:"patient_id"`
	AdmissionID *uuid.UUID    `db:"admission_id" json:"admission_id,omitempty"`
	Status      InvoiceStatus `db:"status" json:"status"`
	TotalCents  int64         `db:"total_cents" json:"total_cents"`
	PaidCents   int64         `db:"paid_cents" json:"paid_cents"`
	DueDate     *time.Time    `db:"due_date" json:"due_date,omitempty"`
	Items       []InvoiceItem `db:"-" json:"items,omitempty"`
}

func (i *Invoice) BalanceCents() int64 {
	return i.TotalCents - i.PaidCents
}

// StatusFor derives the invoice status from the amounts.
func StatusFor(totalCents, paidCents int64) InvoiceStatus {
	switch {
	case paidCents <= 0:
		return InvoiceStatusUnpaid
	case paidCents < totalCents:
		return InvoiceStatusPartiallyPaid
	default:
		return InvoiceStatusPaid
	}
}

type InvoiceItem struct {
	ID             uuid.UUID `db:"id" json:"id"`
	InvoiceID      uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Description    string    `db:"description" json:"description"`
	Quantity       int       `db:"quantity" json:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents" json:"unit_price_cents"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
}

type Payment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InvoiceID   uuid.UUID `db:"invoice_id" json:"invoice_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Method      string    `db:"method" json:"method"`
	PaidAt      time.Time `db:"paid_at" json:"paid_at"`
}

type InvoiceItemRequest struct {
	Description    string `json:"description" binding:"required,max=300"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"min=0"`
}

type CreateInvoiceRequest struct {
	PatientID   uuid.UUID            `json:"patient_id" binding:"required"`
	AdmissionID *uuid.UUID           `json:"admission_id"`
	DueDate     *time.Time           `json:"due_date"`
	Items       []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

type PaymentRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	Method      string `json:"method" binding:"required,oneof=cash card insurance bank_transfer"`
}

type InvoiceFilters struct {
	PatientID *uuid.UUID
	Status    InvoiceStatus
}
