package model

import (
	"time"
)

// Auth actions accepted on POST /api/auth
const (
	AuthActionLogin       = "login"
	AuthActionRegister    = "register"
	AuthActionVerifyEmail = "verify-email"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=200"`
	Role     string `json:"role" binding:"omitempty,oneof=doctor nurse pharmacist lab_technician radiologist receptionist billing"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthRequest is the combined body of POST /api/auth; Action selects which
// of the embedded field groups is read.
type AuthRequest struct {
	Action   string `json:"action" binding:"required,oneof=login register verify-email"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}
