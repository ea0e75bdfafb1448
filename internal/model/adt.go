package model

import (
	"time"

	"github.com/google/uuid"
)

// Admission links a patient to a ward and optionally a bed. It stays open
// until a discharge is recorded.
type Admission struct {
	Base
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	PatientName     string     `db:"patient_name" json:"patient_name"`
	WardID          uuid.UUID  `db:"ward_id" json:"ward_id"`
	BedID           *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	AdmissionDate   time.Time  `db:"admission_date" json:"admission_date"`
	Reason          string     `db:"reason" json:"reason"`
	AttendingDoctor *string    `db:"attending_doctor" json:"attending_doctor,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	DischargedAt    *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
}

func (a *Admission) IsOpen() bool {
	return a.DischargedAt == nil
}

// Transfer records a change of ward and/or bed for an open admission
type Transfer struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	AdmissionID  uuid.UUID  `db:"admission_id" json:"admission_id"`
	FromWardID   uuid.UUID  `db:"from_ward_id" json:"from_ward_id"`
	FromBedID    *uuid.UUID `db:"from_bed_id" json:"from_bed_id,omitempty"`
	ToWardID     uuid.UUID  `db:"to_ward_id" json:"to_ward_id"`
	ToBedID      *uuid.UUID `db:"to_bed_id" json:"to_bed_id,omitempty"`
	TransferDate time.Time  `db:"transfer_date" json:"transfer_date"`
	Reason       *string    `db:"reason" json:"reason,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Discharge closes exactly one admission
type Discharge struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AdmissionID   uuid.UUID  `db:"admission_id" json:"admission_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	BedID         *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	DischargeDate time.Time  `db:"discharge_date" json:"discharge_date"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type CreateAdmissionRequest struct {
	PatientID       uuid.UUID  `json:"patient_id" binding:"required"`
	WardID          uuid.UUID  `json:"ward_id" binding:"required"`
	BedID           *uuid.UUID `json:"bed_id"`
	AdmissionDate   *time.Time `json:"admission_date"`
	Reason          string     `json:"reason" binding:"max=500"`
	AttendingDoctor *string    `json:"attending_doctor" binding:"omitempty,max=200"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateAdmissionRequest edits an admission. Changing WardID or BedID moves
// the patient without recording a transfer.
type UpdateAdmissionRequest struct {
	WardID          *uuid.UUID `json:"ward_id"`
	BedID           *uuid.UUID `json:"bed_id"`
	Reason          *string    `json:"reason" binding:"omitempty,max=500"`
	AttendingDoctor *string    `json:"attending_doctor" binding:"omitempty,max=200"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}

func (req *UpdateAdmissionRequest) MovesPatient() bool {
	return req.WardID != nil || req.BedID != nil
}

type CreateTransferRequest struct {
	AdmissionID  uuid.UUID  `json:"admission_id" binding:"required"`
	ToWardID     uuid.UUID  `json:"to_ward_id" binding:"required"`
	ToBedID      *uuid.UUID `json:"to_bed_id"`
	TransferDate *time.Time `json:"transfer_date"`
	Reason       *string    `json:"reason" binding:"omitempty,max=500"`
}

type CreateDischargeRequest struct {
	AdmissionID   uuid.UUID  `json:"admission_id" binding:"required"`
	DischargeDate *time.Time `json:"discharge_date"`
	Notes         *string    `json:"notes" binding:"omitempty,max=2000"`
}

type AdmissionFilters struct {
	DateRange
	WardID    *uuid.UUID
	PatientID *uuid.UUID
	OpenOnly  bool
}

type DischargeFilters struct {
	DateRange
	PatientID *uuid.UUID
}

// ADT outbox event types
const (
	EventAdmitted    = "adt.admitted"
	EventTransferred = "adt.transferred"
	EventDischarged  = "adt.discharged"
	EventUpdated     = "adt.admission_updated"
)
