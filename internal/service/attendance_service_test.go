package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/repository"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records    []models.Attendance
	duplicates bool
	lastFilter models.AttendanceFilter
}

func (m *mockAttendanceRepo) CreateBatch(ctx context.Context, records []models.Attendance) error {
	if m.duplicates {
		return repository.ErrDuplicate
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error) {
	m.lastFilter = filter
	return m.records, len(m.records), nil
}

func TestAttendanceServiceTake(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, validator.New(), zap.NewNop())

	records, err := svc.Take(context.Background(), "t1", TakeAttendanceRequest{
		ClassID: "c1",
		Date:    time.Now(),
		Entries: []AttendanceEntry{
			{StudentID: "u1", Status: "PRESENT"},
			{StudentID: "u2", Status: "ABSENT"},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "t1", records[0].MarkedBy)
	assert.Equal(t, models.AttendanceAbsent, records[1].Status)
	assert.Len(t, repo.records, 2)
}

func TestAttendanceServiceTakeBadStatus(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Take(context.Background(), "t1", TakeAttendanceRequest{
		ClassID: "c1",
		Date:    time.Now(),
		Entries: []AttendanceEntry{{StudentID: "u1", Status: "LATE"}},
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestAttendanceServiceTakeAlreadyRecorded(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{duplicates: true}, validator.New(), zap.NewNop())

	_, err := svc.Take(context.Background(), "t1", TakeAttendanceRequest{
		ClassID: "c1",
		Date:    time.Now(),
		Entries: []AttendanceEntry{{StudentID: "u1", Status: "PRESENT"}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestAttendanceServiceListEmptyIsNotFound(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.AttendanceFilter{StudentID: "u1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
