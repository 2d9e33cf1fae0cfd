package models

import "time"

// AuditAction enumerates auditable actions.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionLogout AuditAction = "LOGOUT"
	AuditActionSystem AuditAction = "SYSTEM"
)

// AuditLog is one audit trail row.
type AuditLog struct {
	ID          string      `db:"id" json:"id"`
	Action      AuditAction `db:"action" json:"action"`
	EntityType  string      `db:"entity_type" json:"entity_type"`
	EntityID    *string     `db:"entity_id" json:"entity_id,omitempty"`
	ActorID     *string     `db:"actor_id" json:"actor_id,omitempty"`
	ActorRole   *UserRole   `db:"actor_role" json:"actor_role,omitempty"`
	Detail      []byte      `db:"detail" json:"detail,omitempty"`
	Description string      `db:"description" json:"description"`
	IPAddress   string      `db:"ip_address" json:"ip_address"`
	UserAgent   string      `db:"user_agent" json:"user_agent"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// AuditFilter captures filtering criteria for audit queries.
type AuditFilter struct {
	Action     *AuditAction
	EntityType string
	ActorID    string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
