package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/repository"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type attendanceRepository interface {
	CreateBatch(ctx context.Context, records []models.Attendance) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error)
}

// AttendanceEntry is one student's status inside a take-attendance payload.
type AttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=PRESENT ABSENT"`
}

// TakeAttendanceRequest is the teacher payload recording one class/date.
type TakeAttendanceRequest struct {
	ClassID string            `json:"class_id" validate:"required"`
	Date    time.Time         `json:"date" validate:"required"`
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceService provides attendance use cases.
type AttendanceService struct {
	repo      attendanceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, validator: validate, logger: logger}
}

// Take records attendance for a class on a date, one row per student.
func (s *AttendanceService) Take(ctx context.Context, markedBy string, req TakeAttendanceRequest) ([]models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	records := make([]models.Attendance, 0, len(req.Entries))
	for _, entry := range req.Entries {
		records = append(records, models.Attendance{
			StudentID: entry.StudentID,
			ClassID:   req.ClassID,
			Date:      req.Date,
			Status:    models.AttendanceStatus(entry.Status),
			MarkedBy:  markedBy,
		})
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		if err == repository.ErrDuplicate {
			return nil, appErrors.Clone(appErrors.ErrConflict, "attendance already recorded for this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to record attendance")
	}

	return records, nil
}

// List returns attendance rows matching the filter. Zero matches yield 404
// rather than an empty list.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list attendance")
	}
	if len(records) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "no attendance records found")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return records, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}
