package models

import "time"

// Session represents a persisted login session. Sessions live in their own
// table keyed by id with a user reference, so one account can hold several
// sessions and stale rows can be swept by expiry.
type Session struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	Role      UserRole   `db:"role" json:"role"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Revoked   bool       `db:"revoked" json:"revoked"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
	IPAddress string     `db:"ip_address" json:"ip_address"`
	UserAgent string     `db:"user_agent" json:"user_agent"`
}

// Live reports whether the session is still honored at the given instant.
func (s *Session) Live(now time.Time) bool {
	return s != nil && !s.Revoked && now.Before(s.ExpiresAt)
}
