package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type homeworkRepository interface {
	FindByID(ctx context.Context, id string) (*models.Homework, error)
	List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, int, error)
	Create(ctx context.Context, hw *models.Homework) error
	Update(ctx context.Context, hw *models.Homework) error
	Delete(ctx context.Context, id string) error
}

// HomeworkRequest is the teacher payload for creating or editing homework.
type HomeworkRequest struct {
	Grade       int       `json:"grade" validate:"required,min=1,max=12"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	AssignDate  time.Time `json:"assign_date" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// HomeworkService provides homework use cases.
type HomeworkService struct {
	repo      homeworkRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHomeworkService constructs a HomeworkService instance.
func NewHomeworkService(repo homeworkRepository, validate *validator.Validate, logger *zap.Logger) *HomeworkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeworkService{repo: repo, validator: validate, logger: logger}
}

// List returns homework matching the filter; zero matches yield 404.
func (s *HomeworkService) List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list homework")
	}
	if len(records) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "no homework records found")
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

// Create registers a new homework record.
func (s *HomeworkService) Create(ctx context.Context, createdBy string, req HomeworkRequest) (*models.Homework, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload")
	}
	if req.DueDate.Before(req.AssignDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "due date precedes assign date")
	}

	hw := &models.Homework{
		Grade:       req.Grade,
		Title:       req.Title,
		Description: req.Description,
		AssignDate:  req.AssignDate,
		DueDate:     req.DueDate,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, hw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create homework")
	}
	return hw, nil
}

// Update edits an existing homework record. Only the creating teacher may
// modify it.
func (s *HomeworkService) Update(ctx context.Context, id, actorID string, req HomeworkRequest) (*models.Homework, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload")
	}

	hw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load homework")
	}
	if hw.CreatedBy != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "homework belongs to another teacher")
	}

	hw.Grade = req.Grade
	hw.Title = req.Title
	hw.Description = req.Description
	hw.AssignDate = req.AssignDate
	hw.DueDate = req.DueDate

	if err := s.repo.Update(ctx, hw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update homework")
	}
	return hw, nil
}

// Delete removes a homework record owned by the acting teacher.
func (s *HomeworkService) Delete(ctx context.Context, id, actorID string) error {
	hw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load homework")
	}
	if hw.CreatedBy != actorID {
		return appErrors.Clone(appErrors.ErrForbidden, "homework belongs to another teacher")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete homework")
	}
	return nil
}
