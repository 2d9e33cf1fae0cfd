package models

import "time"

// ExamType enumerates recognised exam categories.
type ExamType string

const (
	ExamQuiz       ExamType = "QUIZ"
	ExamAssignment ExamType = "ASSIGNMENT"
	ExamMidterm    ExamType = "MIDTERM"
	ExamFinal      ExamType = "FINAL"
)

// Valid reports whether the exam type is a known value.
func (e ExamType) Valid() bool {
	switch e {
	case ExamQuiz, ExamAssignment, ExamMidterm, ExamFinal:
		return true
	}
	return false
}

// Mark records a score for one student in one subject. At most one row may
// exist per (student, subject, exam type, semester); the store enforces this
// with a unique index.
type Mark struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	Subject    string    `db:"subject" json:"subject"`
	Obtained   float64   `db:"obtained" json:"obtained"`
	Total      float64   `db:"total" json:"total"`
	ExamType   ExamType  `db:"exam_type" json:"exam_type"`
	Semester   int       `db:"semester" json:"semester"`
	Date       time.Time `db:"date" json:"date"`
	RecordedBy string    `db:"recorded_by" json:"recorded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// MarkFilter captures filtering criteria for mark queries.
type MarkFilter struct {
	StudentID string
	ClassID   string
	Subject   string
	ExamType  *ExamType
	Semester  *int
	Page      int
	PageSize  int
}
