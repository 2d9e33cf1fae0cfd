package models

import "time"

// Homework is an assignment targeted at a grade level.
type Homework struct {
	ID          string    `db:"id" json:"id"`
	Grade       int       `db:"grade" json:"grade"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	AssignDate  time.Time `db:"assign_date" json:"assign_date"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HomeworkFilter captures filtering criteria for homework queries.
type HomeworkFilter struct {
	Grade     *int
	CreatedBy string
	DueFrom   *time.Time
	DueTo     *time.Time
	Page      int
	PageSize  int
}
