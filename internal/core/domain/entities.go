package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
	RoleClient   Role = "CLIENT"
)

// IsStaff returns true for roles allowed to review requests
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// ValidRole checks if a string is a known role
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleEmployee, RoleClient:
		return true
	}
	return false
}

// User represents a user in the domain layer
type User struct {
	ID        string
	Email     string
	Password  string // Hashed
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the authenticated caller decoded from an access token.
// It is passed explicitly into every service call; there is no ambient
// "current user" state.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}
