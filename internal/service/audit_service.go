package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
}

// AuditService records and queries the audit trail. Writes are best-effort:
// a failed audit insert is logged and never fails the originating request.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs an AuditService instance.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends an audit row describing a mutation performed by identity.
func (s *AuditService) Record(ctx context.Context, identity *models.Identity, action models.AuditAction, entityType, entityID, description, ip, userAgent string, detail interface{}) {
	entry := &models.AuditLog{
		Action:      action,
		EntityType:  entityType,
		Description: description,
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}
	if identity != nil && identity.User != nil {
		entry.ActorID = &identity.User.ID
		entry.ActorRole = &identity.User.Role
	}
	if detail != nil {
		if raw, err := json.Marshal(detail); err == nil {
			entry.Detail = raw
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log",
			zap.String("action", string(action)),
			zap.String("entity_type", entityType),
			zap.Error(err))
	}
}

// List returns audit rows matching the filter. Unlike resource lists, an
// empty trail is a normal empty page, not an error.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list audit logs")
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	return entries, paginationFor(filter.Page, filter.PageSize, total), nil
}
