package models

import (
	"fmt"
	"time"
)

// Class represents a class record: a named grade/section with an optional
// homeroom teacher and per-subject teacher assignments.
type Class struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Grade        int       `db:"grade" json:"grade"`
	Section      string    `db:"section" json:"section"`
	TeacherID    *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	Subjects []ClassSubject `db:"-" json:"subjects,omitempty"`
}

// ClassSubject assigns a teacher to a subject within a class.
type ClassSubject struct {
	ID        string  `db:"id" json:"id"`
	ClassID   string  `db:"class_id" json:"class_id"`
	Subject   string  `db:"subject" json:"subject"`
	TeacherID *string `db:"teacher_id" json:"teacher_id,omitempty"`
}

// ClassFilter captures filtering criteria for listing classes.
type ClassFilter struct {
	Name      string
	Grade     *int
	TeacherID *string
	Page      int
	PageSize  int
}

// DefaultAcademicYear derives the academic year string from a date. Years
// roll over in June, so May 2026 is still "2025-2026".
func DefaultAcademicYear(now time.Time) string {
	year := now.Year()
	if now.Month() < time.June {
		return fmt.Sprintf("%d-%d", year-1, year)
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}
