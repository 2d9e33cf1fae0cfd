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

const homeworkColumns = `id, grade, title, description, assign_date, due_date, created_by, created_at, updated_at`

// HomeworkRepository provides database access for homework records.
type HomeworkRepository struct {
	db *sqlx.DB
}

// NewHomeworkRepository creates a new instance of HomeworkRepository.
func NewHomeworkRepository(db *sqlx.DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

// FindByID returns a homework record by primary key.
func (r *HomeworkRepository) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	const query = `SELECT ` + homeworkColumns + ` FROM homework WHERE id = $1 LIMIT 1`
	var hw models.Homework
	if err := r.db.GetContext(ctx, &hw, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find homework by id: %w", err)
	}
	return &hw, nil
}

// List returns homework matching the filter with a total count.
func (r *HomeworkRepository) List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, int, error) {
	baseQuery := `FROM homework WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Grade != nil {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", len(args)+1))
		args = append(args, *filter.Grade)
	}
	if filter.CreatedBy != "" {
		conditions = append(conditions, fmt.Sprintf("created_by = $%d", len(args)+1))
		args = append(args, filter.CreatedBy)
	}
	if filter.DueFrom != nil {
		conditions = append(conditions, fmt.Sprintf("due_date >= $%d", len(args)+1))
		args = append(args, *filter.DueFrom)
	}
	if filter.DueTo != nil {
		conditions = append(conditions, fmt.Sprintf("due_date <= $%d", len(args)+1))
		args = append(args, *filter.DueTo)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT "+homeworkColumns+" %s ORDER BY due_date ASC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var records []models.Homework
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list homework: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count homework: %w", err)
	}

	return records, total, nil
}

// Create inserts a new homework record.
func (r *HomeworkRepository) Create(ctx context.Context, hw *models.Homework) error {
	if hw.ID == "" {
		hw.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if hw.CreatedAt.IsZero() {
		hw.CreatedAt = now
	}
	hw.UpdatedAt = now

	const query = `INSERT INTO homework (id, grade, title, description, assign_date, due_date, created_by, created_at, updated_at)
		VALUES (:id, :grade, :title, :description, :assign_date, :due_date, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hw); err != nil {
		return fmt.Errorf("create homework: %w", err)
	}
	return nil
}

// Update persists mutable homework fields.
func (r *HomeworkRepository) Update(ctx context.Context, hw *models.Homework) error {
	hw.UpdatedAt = time.Now().UTC()

	const query = `UPDATE homework SET grade = :grade, title = :title, description = :description, assign_date = :assign_date, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, hw)
	if err != nil {
		return fmt.Errorf("update homework: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a homework record.
func (r *HomeworkRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM homework WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
