package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-api/internal/models"
)

func markRow(id, studentID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "student_id", "subject", "obtained", "total", "exam_type", "semester", "date", "recorded_by", "created_at", "updated_at"}).
		AddRow(id, studentID, "Mathematics", 42.0, 50.0, string(models.ExamMidterm), 1, now, "t1", now, now)
}

func TestMarkCreateDuplicateTuple(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	mock.ExpectExec("INSERT INTO marks").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Mark{
		StudentID:  "u1",
		Subject:    "Mathematics",
		Obtained:   42,
		Total:      50,
		ExamType:   models.ExamMidterm,
		Semester:   1,
		Date:       time.Now(),
		RecordedBy: "t1",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkListByStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	mock.ExpectQuery("SELECT m.id, m.student_id, .* FROM marks m WHERE 1=1 AND m.student_id = .* ORDER BY m.date DESC LIMIT 20 OFFSET 0").
		WithArgs("u1").
		WillReturnRows(markRow("mk1", "u1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM marks m WHERE 1=1 AND m.student_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	marks, total, err := repo.List(context.Background(), models.MarkFilter{StudentID: "u1", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, marks, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Mathematics", marks[0].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkListByClassJoinsRoster(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	mock.ExpectQuery(`SELECT m\..* FROM marks m WHERE 1=1 AND m\.student_id IN \(SELECT id FROM users WHERE class_id = .*\)`).
		WithArgs("c1").
		WillReturnRows(markRow("mk1", "u1"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM marks m WHERE 1=1 AND m\.student_id IN`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	marks, total, err := repo.List(context.Background(), models.MarkFilter{ClassID: "c1"})
	require.NoError(t, err)
	assert.Len(t, marks, 1)
	assert.Equal(t, 1, total)
}

func TestMarkUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	mock.ExpectExec("UPDATE marks SET").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Mark{ID: "mk1", Obtained: 45, Total: 50, Date: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
