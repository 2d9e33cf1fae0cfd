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

const calendarColumns = `id, title, description, start_date, end_date, created_by, created_at, updated_at`

// CalendarRepository provides database access for calendar events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository creates a new instance of CalendarRepository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// FindByID returns an event by primary key.
func (r *CalendarRepository) FindByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	const query = `SELECT ` + calendarColumns + ` FROM calendar_events WHERE id = $1 LIMIT 1`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find calendar event by id: %w", err)
	}
	return &event, nil
}

// List returns events matching the filter with a total count. Range bounds
// select any event overlapping the window.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	baseQuery := `FROM calendar_events WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT "+calendarColumns+" %s ORDER BY start_date ASC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendar events: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count calendar events: %w", err)
	}

	return events, total, nil
}

// Create inserts a new event.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO calendar_events (id, title, description, start_date, end_date, created_by, created_at, updated_at)
		VALUES (:id, :title, :description, :start_date, :end_date, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// Update persists mutable event fields.
func (r *CalendarRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()

	const query = `UPDATE calendar_events SET title = :title, description = :description, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event.
func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM calendar_events WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
