package model

import (
	"time"

	"github.com/google/uuid"
)

// Triage levels follow a five-level acuity scale; 1 is most urgent.
const (
	TriageResuscitation = 1
	TriageEmergent      = 2
	TriageUrgent        = 3
	TriageLessUrgent    = 4
	TriageNonUrgent     = 5
)

type TriageStatus string

const (
	TriageStatusWaiting TriageStatus = "waiting"
	TriageStatusSeen    TriageStatus = "seen"
)

type TriageRecord struct {
	Base
	PatientID        uuid.UUID    `db:"patient_id" json:"patient_id"`
	Level            int          `db:"level" json:"level"`
	ChiefComplaint   string       `db:"chief_complaint" json:"chief_complaint"`
	HeartRate        *int         `db:"heart_rate" json:"heart_rate,omitempty"`
	RespiratoryRate  *int         `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	BloodPressure    *string      `db:"blood_pressure" json:"blood_pressure,omitempty"`
	Temperature      *float64     `db:"temperature" json:"temperature,omitempty"`
	OxygenSaturation *int         `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	Status           TriageStatus `db:"status" json:"status"`
	ArrivedAt        time.Time    `db:"arrived_at" json:"arrived_at"`
	SeenAt           *time.Time   `db:"seen_at" json:"seen_at,omitempty"`
}

type CreateTriageRequest struct {
	PatientID        uuid.UUID  `json:"patient_id" binding:"required"`
	Level            int        `json:"level" binding:"required,triagelevel"`
	ChiefComplaint   string     `json:"chief_complaint" binding:"required,max=500"`
	HeartRate        *int       `json:"heart_rate" binding:"omitempty,min=0,max=300"`
	RespiratoryRate  *int       `json:"respiratory_rate" binding:"omitempty,min=0,max=100"`
	BloodPressure    *string    `json:"blood_pressure" binding:"omitempty,max=16"`
	Temperature      *float64   `json:"temperature" binding:"omitempty,min=25,max=45"`
	OxygenSaturation *int       `json:"oxygen_saturation" binding:"omitempty,min=0,max=100"`
	ArrivedAt        *time.Time `json:"arrived_at"`
}
