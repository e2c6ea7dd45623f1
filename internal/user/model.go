package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("role must be either user or admin")
	ErrLastAdmin          = errors.New("cannot delete the last admin user")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account that owns calendars.
type User struct {
	ID           string // UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time

	// CalendarCount is populated by list queries for the admin view.
	CalendarCount int
}

// Filter defines filter options for listing users.
type Filter struct {
	Email    string
	Role     string
	Page     int
	PageSize int
}
