package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	// PINHash is the bcrypt hash of the security PIN chosen at signup.
	// The PIN is the secondary verifier for password resets.
	PINHash   string    `json:"-"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

type SignupForm struct {
	Name     string
	Email    string
	Password string
	PIN      string
}

type LoginForm struct {
	Email    string
	Password string
}

type ResetPasswordForm struct {
	Email       string
	PIN         string
	NewPassword string
}
