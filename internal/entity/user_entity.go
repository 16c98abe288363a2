package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleStudent    UserRole = "student"
	UserRoleInstructor UserRole = "instructor"
	UserRoleAdmin      UserRole = "admin"
)

// Observer reports whether this role is entitled to every alert of every
// session, regardless of explicit subscriptions.
func (r UserRole) Observer() bool {
	return r == UserRoleAdmin || r == UserRoleInstructor
}

type User struct {
	Id           uuid.UUID
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
