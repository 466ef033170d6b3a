package auth

import (
	"errors"
	"time"
)

// Role controls what a signed-in account may do with the analytics API.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

// Status marks whether an account may sign in.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// User is an account with access to the dashboards.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	Status       Status
	PasswordHash string
}

// Validate checks the required account fields.
func (u User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Role == "" {
		return errors.New("role is required")
	}
	if u.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

// IsActive reports whether the account may sign in.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}

// CanUpload reports whether the role may create datasets.
func (u User) CanUpload() bool {
	return u.Role == RoleAdmin || u.Role == RoleAnalyst
}

// Token is a signed access token with its expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}
