package model

import (
	"time"
)

// User roles
const (
	RoleAdmin         = "admin"
	RoleDoctor        = "doctor"
	RoleNurse         = "nurse"
	RolePharmacist    = "pharmacist"
	RoleLabTechnician = "lab_technician"
	RoleRadiologist   = "radiologist"
	RoleReceptionist  = "receptionist"
	RoleBilling       = "billing"
)

// User is a hospital staff member who can sign in to the API
type User struct {
	Base
	Email                 string     `json:"email" db:"email"`
	Name                  string     `json:"name" db:"name"`
	PasswordHash          string     `json:"-" db:"password_hash"`
	Role                  string     `json:"role" db:"role"`
	EmailVerified         bool       `json:"email_verified" db:"email_verified"`
	VerificationToken     *string    `json:"-" db:"verification_token"`
	VerificationExpiresAt *time.Time `json:"-" db:"verification_expires_at"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}
