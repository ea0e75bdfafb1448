package model

import (
	"github.com/google/uuid"
)

type WardType string

const (
	WardTypeGeneral   WardType = "general"
	WardTypeICU       WardType = "icu"
	WardTypeMaternity WardType = "maternity"
	WardTypePediatric WardType = "pediatric"
	WardTypeSurgical  WardType = "surgical"
	WardTypeEmergency WardType = "emergency"
	WardTypeIsolation WardType = "isolation"
)

type Ward struct {
	Base
	Name  string   `db:"name" json:"name"`
	Type  WardType `db:"type" json:"type"`
	Floor int      `db:"floor" json:"floor"`
}

// Bed belongs to a ward. Occupied and AdmissionID are derived from the open
// admission that references the bed, if any; they are never stored.
type Bed struct {
	Base
	WardID      uuid.UUID  `db:"ward_id" json:"ward_id"`
	Number      string     `db:"number" json:"number"`
	Occupied    bool       `db:"occupied" json:"occupied"`
	AdmissionID *uuid.UUID `db:"admission_id" json:"admission_id,omitempty"`
}

type CreateWardRequest struct {
	Name  string   `json:"name" binding:"required,max=100"`
	Type  WardType `json:"type" binding:"required,oneof=general icu maternity pediatric surgical emergency isolation"`
	Floor int      `json:"floor" binding:"min=0,max=200"`
}

type CreateBedRequest struct {
	Number string `json:"number" binding:"required,max=20"`
}

// WardCensus summarises bed usage for one ward
type WardCensus struct {
	WardID       uuid.UUID `db:"ward_id" json:"ward_id"`
	WardName     string    `db:"ward_name" json:"ward_name"`
	WardType     WardType  `db:"ward_type" json:"ward_type"`
	TotalBeds    int       `db:"total_beds" json:"total_beds"`
	OccupiedBeds int       `db:"occupied_beds" json:"occupied_beds"`
	FreeBeds     int       `db:"free_beds" json:"free_beds"`
}
