package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	SchoolID  string `json:"school_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued bearer token and account info.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated account in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	SchoolID string   `json:"school_id"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
	ClassID  *string  `json:"class_id,omitempty"`
	Grade    *int     `json:"grade,omitempty"`
}

// AuthClaims is the JWT payload for bearer tokens. The session id binds the
// token to a sessions row; freshness and revocation are decided there, not
// from the token alone.
type AuthClaims struct {
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the resolved caller attached to the request context by the
// auth middleware.
type Identity struct {
	User    *User
	Session *Session
}
