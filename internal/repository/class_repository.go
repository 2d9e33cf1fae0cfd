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

const classColumns = `id, name, grade, section, teacher_id, academic_year, created_at, updated_at`

// ClassRepository provides database access for class records.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new instance of ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID returns a class by primary key.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT ` + classColumns + ` FROM classes WHERE id = $1 LIMIT 1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return &class, nil
}

// FindByName returns a class by its unique name, case-insensitively.
func (r *ClassRepository) FindByName(ctx context.Context, name string) (*models.Class, error) {
	const query = `SELECT ` + classColumns + ` FROM classes WHERE LOWER(name) = LOWER($1) LIMIT 1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by name: %w", err)
	}
	return &class, nil
}

// List returns classes matching the filter with a total count.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	baseQuery := `FROM classes WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Name)
	}
	if filter.Grade != nil {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", len(args)+1))
		args = append(args, *filter.Grade)
	}
	if filter.TeacherID != nil {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, *filter.TeacherID)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT "+classColumns+" %s ORDER BY grade ASC, section ASC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	return classes, total, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, grade, section, teacher_id, academic_year, created_at, updated_at)
		VALUES (:id, :name, :grade, :section, :teacher_id, :academic_year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		if translated := translateUnique(err); translated == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update persists mutable class fields.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()

	const query = `UPDATE classes SET name = :name, grade = :grade, section = :section, teacher_id = :teacher_id, academic_year = :academic_year, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, class)
	if err != nil {
		if translated := translateUnique(err); translated == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("update class: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM classes WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListSubjects returns the subject/teacher assignments for a class.
func (r *ClassRepository) ListSubjects(ctx context.Context, classID string) ([]models.ClassSubject, error) {
	const query = `SELECT id, class_id, subject, teacher_id FROM class_subjects WHERE class_id = $1 ORDER BY subject ASC`
	var subjects []models.ClassSubject
	if err := r.db.SelectContext(ctx, &subjects, query, classID); err != nil {
		return nil, fmt.Errorf("list class subjects: %w", err)
	}
	return subjects, nil
}

// ReplaceSubjects swaps the full subject assignment set for a class.
func (r *ClassRepository) ReplaceSubjects(ctx context.Context, classID string, subjects []models.ClassSubject) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM class_subjects WHERE class_id = $1`, classID); err != nil {
		return fmt.Errorf("clear class subjects: %w", err)
	}
	const query = `INSERT INTO class_subjects (id, class_id, subject, teacher_id) VALUES (:id, :class_id, :subject, :teacher_id)`
	for i := range subjects {
		if subjects[i].ID == "" {
			subjects[i].ID = uuid.NewString()
		}
		subjects[i].ClassID = classID
		if _, err := r.db.NamedExecContext(ctx, query, subjects[i]); err != nil {
			return fmt.Errorf("insert class subject: %w", err)
		}
	}
	return nil
}
