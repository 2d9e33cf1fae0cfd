package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/repository"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type markRepository interface {
	FindByID(ctx context.Context, id string) (*models.Mark, error)
	List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, int, error)
	Create(ctx context.Context, mark *models.Mark) error
	Update(ctx context.Context, mark *models.Mark) error
	Delete(ctx context.Context, id string) error
}

// MarkRequest is the teacher payload for recording a mark.
type MarkRequest struct {
	StudentID string    `json:"student_id" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	Obtained  float64   `json:"obtained" validate:"min=0"`
	Total     float64   `json:"total" validate:"required,gt=0"`
	ExamType  string    `json:"exam_type" validate:"required,oneof=QUIZ ASSIGNMENT MIDTERM FINAL"`
	Semester  int       `json:"semester" validate:"required,min=1,max=2"`
	Date      time.Time `json:"date" validate:"required"`
}

// UpdateMarkRequest edits the score fields of an existing mark.
type UpdateMarkRequest struct {
	Obtained float64   `json:"obtained" validate:"min=0"`
	Total    float64   `json:"total" validate:"required,gt=0"`
	Date     time.Time `json:"date" validate:"required"`
}

// MarkService provides mark use cases. The one-row-per
// (student, subject, exam type, semester) invariant is enforced by the store;
// duplicates come back as 409, never a silent overwrite.
type MarkService struct {
	repo      markRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarkService constructs a MarkService instance.
func NewMarkService(repo markRepository, validate *validator.Validate, logger *zap.Logger) *MarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkService{repo: repo, validator: validate, logger: logger}
}

// List returns marks matching the filter; zero matches yield 404.
func (s *MarkService) List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, *models.Pagination, error) {
	marks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list marks")
	}
	if len(marks) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "no mark records found")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return marks, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Record inserts a new mark.
func (s *MarkService) Record(ctx context.Context, recordedBy string, req MarkRequest) (*models.Mark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}
	if req.Obtained > req.Total {
		return nil, appErrors.Clone(appErrors.ErrValidation, "obtained marks exceed total")
	}

	mark := &models.Mark{
		StudentID:  req.StudentID,
		Subject:    req.Subject,
		Obtained:   req.Obtained,
		Total:      req.Total,
		ExamType:   models.ExamType(req.ExamType),
		Semester:   req.Semester,
		Date:       req.Date,
		RecordedBy: recordedBy,
	}
	if err := s.repo.Create(ctx, mark); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "mark already recorded for this student, subject, exam and semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to record mark")
	}
	return mark, nil
}

// Update edits the score of an existing mark.
func (s *MarkService) Update(ctx context.Context, id string, req UpdateMarkRequest) (*models.Mark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}
	if req.Obtained > req.Total {
		return nil, appErrors.Clone(appErrors.ErrValidation, "obtained marks exceed total")
	}

	mark, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mark not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load mark")
	}

	mark.Obtained = req.Obtained
	mark.Total = req.Total
	mark.Date = req.Date

	if err := s.repo.Update(ctx, mark); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mark not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update mark")
	}
	return mark, nil
}

// Delete removes a mark.
func (s *MarkService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "mark not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete mark")
	}
	return nil
}
