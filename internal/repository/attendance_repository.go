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

const attendanceColumns = `id, student_id, class_id, date, status, marked_by, created_at`

// AttendanceRepository provides database access for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateBatch inserts one attendance row per student for a class/date take.
func (r *AttendanceRepository) CreateBatch(ctx context.Context, records []models.Attendance) error {
	const query = `INSERT INTO attendance (id, student_id, class_id, date, status, marked_by, created_at)
		VALUES (:id, :student_id, :class_id, :date, :status, :marked_by, :created_at)`
	now := time.Now().UTC()
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		if records[i].CreatedAt.IsZero() {
			records[i].CreatedAt = now
		}
		if _, err := r.db.NamedExecContext(ctx, query, records[i]); err != nil {
			if translated := translateUnique(err); translated == ErrDuplicate {
				return ErrDuplicate
			}
			return fmt.Errorf("create attendance: %w", err)
		}
	}
	return nil
}

// List returns attendance rows matching the filter with a total count.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error) {
	baseQuery := `FROM attendance WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT "+attendanceColumns+" %s ORDER BY date DESC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}

	return records, total, nil
}
