package model

import (
	"time"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

type Patient struct {
	Base
	MRN              string    `db:"mrn" json:"mrn"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	DateOfBirth      time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender           Gender    `db:"gender" json:"gender"`
	BloodGroup       *string   `db:"blood_group" json:"blood_group,omitempty"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	Email            *string   `db:"email" json:"email,omitempty"`
	Address          *string   `db:"address" json:"address,omitempty"`
	EmergencyContact *string   `db:"emergency_contact" json:"emergency_contact,omitempty"`
}

// FullName is the denormalized display name used on admissions and orders.
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	MRN              string    `json:"mrn" binding:"required,max=32"`
	FirstName        string    `json:"first_name" binding:"required,max=100"`
	LastName         string    `json:"last_name" binding:"required,max=100"`
	DateOfBirth      time.Time `json:"date_of_birth" binding:"required"`
	Gender           Gender    `json:"gender" binding:"required,oneof=male female other unknown"`
	BloodGroup       *string   `json:"blood_group" binding:"omitempty,bloodgroup"`
	Phone            *string   `json:"phone" binding:"omitempty,max=32"`
	Email            *string   `json:"email" binding:"omitempty,email"`
	Address          *string   `json:"address" binding:"omitempty,max=500"`
	EmergencyContact *string   `json:"emergency_contact" binding:"omitempty,max=200"`
}

type UpdatePatientRequest struct {
	FirstName        *string    `json:"first_name" binding:"omitempty,max=100"`
	LastName         *string    `json:"last_name" binding:"omitempty,max=100"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Gender           *Gender    `json:"gender" binding:"omitempty,oneof=male female other unknown"`
	BloodGroup       *string    `json:"blood_group" binding:"omitempty,bloodgroup"`
	Phone            *string    `json:"phone" binding:"omitempty,max=32"`
	Email            *string    `json:"email" binding:"omitempty,email"`
	Address          *string    `json:"address" binding:"omitempty,max=500"`
	EmergencyContact *string    `json:"emergency_contact" binding:"omitempty,max=200"`
}

// Apply copies the non-nil fields of req onto p.
func (req *UpdatePatientRequest) Apply(p *Patient) {
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		p.BloodGroup = req.BloodGroup
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.EmergencyContact != nil {
		p.EmergencyContact = req.EmergencyContact
	}
}

type PatientFilters struct {
	Pagination
	Search string
}
