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

const timetableColumns = `id, class_id, day_of_week, period, subject, teacher_id, start_time, end_time, created_at, updated_at`

// TimetableRepository provides database access for timetable slots.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new instance of TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// FindByID returns a slot by primary key.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.TimetableSlot, error) {
	const query = `SELECT ` + timetableColumns + ` FROM timetable_slots WHERE id = $1 LIMIT 1`
	var slot models.TimetableSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find timetable slot by id: %w", err)
	}
	return &slot, nil
}

// List returns slots matching the filter ordered by day and period.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlot, error) {
	baseQuery := `FROM timetable_slots WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.DayOfWeek != nil {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", len(args)+1))
		args = append(args, *filter.DayOfWeek)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT "+timetableColumns+" %s ORDER BY day_of_week ASC, period ASC", baseQuery)

	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, listQuery, args...); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}

	return slots, nil
}

// Create inserts a new slot. Duplicate (class, day, period) cells surface as
// ErrDuplicate.
func (r *TimetableRepository) Create(ctx context.Context, slot *models.TimetableSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO timetable_slots (id, class_id, day_of_week, period, subject, teacher_id, start_time, end_time, created_at, updated_at)
		VALUES (:id, :class_id, :day_of_week, :period, :subject, :teacher_id, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		if translated := translateUnique(err); translated == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("create timetable slot: %w", err)
	}
	return nil
}

// Update persists mutable slot fields.
func (r *TimetableRepository) Update(ctx context.Context, slot *models.TimetableSlot) error {
	slot.UpdatedAt = time.Now().UTC()

	const query = `UPDATE timetable_slots SET day_of_week = :day_of_week, period = :period, subject = :subject, teacher_id = :teacher_id, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, slot)
	if err != nil {
		if translated := translateUnique(err); translated == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("update timetable slot: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a slot.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetable_slots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable slot: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
