package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-api/internal/models"
)

const auditColumns = `id, action, entity_type, entity_id, actor_id, actor_role, detail, description, ip_address, user_agent, created_at`

// AuditRepository provides database access for the audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit row. Audit writes are best-effort at call sites;
// the error is returned so callers can decide to log it.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO audit_logs (id, action, entity_type, entity_id, actor_id, actor_role, detail, description, ip_address, user_agent, created_at)
		VALUES (:id, :action, :entity_type, :entity_id, :actor_id, :actor_role, :detail, :description, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns audit rows matching the filter with a total count.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error) {
	baseQuery := `FROM audit_logs WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Action != nil {
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)+1))
		args = append(args, *filter.Action)
	}
	if filter.EntityType != "" {
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", len(args)+1))
		args = append(args, filter.EntityType)
	}
	if filter.ActorID != "" {
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)+1))
		args = append(args, filter.ActorID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT "+auditColumns+" %s ORDER BY created_at DESC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var entries []models.AuditLog
	if err := r.db.SelectContext(ctx, &entries, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	return entries, total, nil
}
