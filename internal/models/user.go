package models

import "time"

// UserRole partitions accounts into the three application roles.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// Valid reports whether the role is one of the known partitions.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User represents an account stored in the users table. Students carry a
// class reference and grade; teachers carry a subject; admins carry neither.
type User struct {
	ID           string     `db:"id" json:"id"`
	SchoolID     string     `db:"school_id" json:"school_id"`
	FullName     string     `db:"full_name" json:"full_name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	ClassID      *string    `db:"class_id" json:"class_id,omitempty"`
	Grade        *int       `db:"grade" json:"grade,omitempty"`
	Subject      *string    `db:"subject" json:"subject,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing accounts.
type UserFilter struct {
	Role     *UserRole
	ClassID  *string
	Grade    *int
	SchoolID string
	Search   string
	Page     int
	PageSize int
}
