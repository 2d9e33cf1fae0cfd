package models

import "time"

// CalendarEvent is a dated school event (holiday, exam week, excursion).
type CalendarEvent struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CalendarFilter captures filtering criteria for calendar queries.
type CalendarFilter struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
