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

const markColumns = `id, student_id, subject, obtained, total, exam_type, semester, date, recorded_by, created_at, updated_at`

// MarkRepository provides database access for mark records. The
// (student_id, subject, exam_type, semester) tuple is a unique index; Create
// surfaces violations as ErrDuplicate rather than overwriting.
type MarkRepository struct {
	db *sqlx.DB
}

// NewMarkRepository creates a new instance of MarkRepository.
func NewMarkRepository(db *sqlx.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// FindByID returns a mark by primary key.
func (r *MarkRepository) FindByID(ctx context.Context, id string) (*models.Mark, error) {
	const query = `SELECT ` + markColumns + ` FROM marks WHERE id = $1 LIMIT 1`
	var mark models.Mark
	if err := r.db.GetContext(ctx, &mark, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mark by id: %w", err)
	}
	return &mark, nil
}

// List returns marks matching the filter with a total count. ClassID joins
// through the student roster so admins can pull a whole class.
func (r *MarkRepository) List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, int, error) {
	baseQuery := `FROM marks m WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("m.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("m.student_id IN (SELECT id FROM users WHERE class_id = $%d)", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(m.subject) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.ExamType != nil {
		conditions = append(conditions, fmt.Sprintf("m.exam_type = $%d", len(args)+1))
		args = append(args, *filter.ExamType)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("m.semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := clampPage(filter.Page, filter.PageSize)

	cols := strings.ReplaceAll(markColumns, ", ", ", m.")
	listQuery := fmt.Sprintf("SELECT m.%s %s ORDER BY m.date DESC LIMIT %d OFFSET %d", cols, baseQuery, pageSize, offset)

	var marks []models.Mark
	if err := r.db.SelectContext(ctx, &marks, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list marks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count marks: %w", err)
	}

	return marks, total, nil
}

// Create inserts a new mark.
func (r *MarkRepository) Create(ctx context.Context, mark *models.Mark) error {
	if mark.ID == "" {
		mark.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mark.CreatedAt.IsZero() {
		mark.CreatedAt = now
	}
	mark.UpdatedAt = now

	const query = `INSERT INTO marks (id, student_id, subject, obtained, total, exam_type, semester, date, recorded_by, created_at, updated_at)
		VALUES (:id, :student_id, :subject, :obtained, :total, :exam_type, :semester, :date, :recorded_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mark); err != nil {
		if translated := translateUnique(err); translated == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("create mark: %w", err)
	}
	return nil
}

// Update persists the score fields of an existing mark.
func (r *MarkRepository) Update(ctx context.Context, mark *models.Mark) error {
	mark.UpdatedAt = time.Now().UTC()

	const query = `UPDATE marks SET obtained = :obtained, total = :total, date = :date, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, mark)
	if err != nil {
		return fmt.Errorf("update mark: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a mark.
func (r *MarkRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM marks WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete mark: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
