package model

import (
	"time"

	"github.com/google/uuid"
)

type Medication struct {
	Base
	Name           string `db:"name" json:"name"`
	Form           string `db:"form" json:"form"`
	Strength       string `db:"strength" json:"strength"`
	StockQuantity  int    `db:"stock_quantity" json:"stock_quantity"`
	UnitPriceCents int64  `db:"unit_price_cents" json:"unit_price_cents"`
}

type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "active"
	PrescriptionStatusDispensed PrescriptionStatus = "dispensed"
	PrescriptionStatusCancelled PrescriptionStatus = "cancelled"
)

type Prescription struct {
	Base
	PatientID      uuid.UUID          `db:"patient_id" json:"patient_id"`
	AdmissionID    *uuid.UUID         `db:"admission_id" json:"admission_id,omitempty"`
	MedicationID   uuid.UUID          `db:"medication_id" json:"medication_id"`
	MedicationName string             `db:"medication_name" json:"medication_name"`
	Dosage         string             `db:"dosage" json:"dosage"`
	Frequency      string             `db:"frequency" json:"frequency"`
	DurationDays   int                `db:"duration_days" json:"duration_days"`
	Quantity       int                `db:"quantity" json:"quantity"`
	PrescribedBy   string             `db:"prescribed_by" json:"prescribed_by"`
	Status         PrescriptionStatus `db:"status" json:"status"`
	DispensedAt    *time.Time         `db:"dispensed_at" json:"dispensed_at,omitempty"`
}

type CreateMedicationRequest struct {
	Name           string `json:"name" binding:"required,max=200"`
	Form           string `json:"form" binding:"required,oneof=tablet capsule syrup injection ointment inhaler drops"`
	Strength       string `json:"strength" binding:"required,max=50"`
	StockQuantity  int    `json:"stock_quantity" binding:"min=0"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"min=0"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CreatePrescriptionRequest struct {
	PatientID    uuid.UUID  `json:"patient_id" binding:"required"`
	AdmissionID  *uuid.UUID `json:"admission_id"`
	MedicationID uuid.UUID  `json:"medication_id" binding:"required"`
	Dosage       string     `json:"dosage" binding:"required,max=100"`
	Frequency    string     `json:"frequency" binding:"required,max=100"`
	DurationDays int        `json:"duration_days" binding:"required,min=1,max=365"`
	Quantity     int        `json:"quantity" binding:"required,min=1"`
	PrescribedBy string     `json:"prescribed_by" binding:"required,max=200"`
}

type PrescriptionFilters struct {
	PatientID *uuid.UUID
	Status    PrescriptionStatus
}
