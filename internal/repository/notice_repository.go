package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-api/internal/models"
)

const noticeColumns = `id, class_id, title, description, date, created_by, created_at, updated_at`

// NoticeRepository provides database access for notices.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository creates a new instance of NoticeRepository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// FindByID returns a notice by primary key.
func (r *NoticeRepository) FindByID(ctx context.Context, id string) (*models.Notice, error) {
	const query = `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1 LIMIT 1`
	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find notice by id: %w", err)
	}
	return &notice, nil
}

// List returns notices matching the filter with a total count. When a class
// is given, school-wide notices (NULL class) are included alongside it.
func (r *NoticeRepository) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error) {
	baseQuery := `FROM notices WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ClassID != nil {
		conditions = append(conditions, fmt.Sprintf("(class_id IS NULL OR class_id = $%d)", len(args)+1))
		args = append(args, *filter.ClassID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT "+noticeColumns+" %s ORDER BY date DESC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var notices []models.Notice
	if err := r.db.SelectContext(ctx, &notices, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list notices: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notices: %w", err)
	}

	return notices, total, nil
}

// Create inserts a new notice.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = now
	}
	notice.UpdatedAt = now

	const query = `INSERT INTO notices (id, class_id, title, description, date, created_by, created_at, updated_at)
		VALUES (:id, :class_id, :title, :description, :date, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

// Update persists mutable notice fields.
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	notice.UpdatedAt = time.Now().UTC()

	const query = `UPDATE notices SET class_id = :class_id, title = :title, description = :description, date = :date, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, notice)
	if err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a notice.
func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM notices WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
