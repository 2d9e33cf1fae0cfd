package models

import "time"

// AttendanceStatus enumerates recognised attendance states.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

// Valid reports whether the status is a known value.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Attendance is one student's status for one date.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	ClassID   string           `db:"class_id" json:"class_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	MarkedBy  string           `db:"marked_by" json:"marked_by"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceFilter captures filtering criteria for attendance queries.
type AttendanceFilter struct {
	StudentID string
	ClassID   string
	From      *time.Time
	To        *time.Time
	Status    *AttendanceStatus
	Page      int
	PageSize  int
}
