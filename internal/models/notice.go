package models

import "time"

// Notice is an announcement, optionally scoped to one class. A nil class
// reference means the notice is visible school-wide.
type Notice struct {
	ID          string    `db:"id" json:"id"`
	ClassID     *string   `db:"class_id" json:"class_id,omitempty"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"date" json:"date"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NoticeFilter captures filtering criteria for notice queries. ClassID
// restricts results to global notices plus the named class.
type NoticeFilter struct {
	ClassID  *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
