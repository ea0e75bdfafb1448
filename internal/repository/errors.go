package repository

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrReference is returned when a foreign key points at a missing row.
	ErrReference = errors.New("referenced record does not exist")
	// ErrReferenced is returned when a delete is blocked by rows that still
	// point at the record.
	ErrReferenced = errors.New("record is still referenced")

	ErrBedOccupied     = errors.New("bed is occupied")
	ErrPatientAdmitted = errors.New("patient already has an open admission")

	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyDispensed  = errors.New("prescription is not active")
	ErrOrderClosed       = errors.New("order is not open")
	ErrOverpayment       = errors.New("payment exceeds outstanding balance")
	ErrInvoicePaid       = errors.New("invoice is already paid")
)
