package models

import "time"

// TimetableSlot is one period for one class: a (day, period) cell holding a
// subject, the teacher taking it, and the wall-clock times. The store keeps
// (class, day, period) unique.
type TimetableSlot struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	Period    int       `db:"period" json:"period"`
	Subject   string    `db:"subject" json:"subject"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableFilter captures filtering criteria for timetable queries.
type TimetableFilter struct {
	ClassID   string
	TeacherID string
	DayOfWeek *int
}
