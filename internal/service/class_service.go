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

type classRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindByName(ctx context.Context, name string) (*models.Class, error)
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, classID string) ([]models.ClassSubject, error)
	ReplaceSubjects(ctx context.Context, classID string, subjects []models.ClassSubject) error
}

// SubjectAssignment names a subject and its teacher within a class payload.
type SubjectAssignment struct {
	Subject   string  `json:"subject" validate:"required"`
	TeacherID *string `json:"teacher_id,omitempty"`
}

// ClassRequest is the admin payload for creating or editing a class.
type ClassRequest struct {
	Name         string              `json:"name" validate:"required"`
	Grade        int                 `json:"grade" validate:"required,min=1,max=12"`
	Section      string              `json:"section" validate:"required"`
	TeacherID    *string             `json:"teacher_id,omitempty"`
	AcademicYear string              `json:"academic_year,omitempty"`
	Subjects     []SubjectAssignment `json:"subjects,omitempty" validate:"dive"`
}

// ClassService provides class management use cases.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// List returns classes matching the filter. Like the account list, zero
// matches is an empty page, not an error.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return classes, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one class with its subject assignments.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load class")
	}

	subjects, err := s.repo.ListSubjects(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load class subjects")
	}
	class.Subjects = subjects
	return class, nil
}

// Create registers a new class. The academic year defaults from the current
// date when the payload leaves it empty.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	// Pre-insert check for a friendlier error; the unique index on name
	// still backstops concurrent creates.
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class name already in use")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to check class name")
	}

	year := req.AcademicYear
	if year == "" {
		year = models.DefaultAcademicYear(time.Now())
	}

	class := &models.Class{
		Name:         req.Name,
		Grade:        req.Grade,
		Section:      req.Section,
		TeacherID:    req.TeacherID,
		AcademicYear: year,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class name already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create class")
	}

	if len(req.Subjects) > 0 {
		if err := s.replaceSubjects(ctx, class, req.Subjects); err != nil {
			return nil, err
		}
	}

	return class, nil
}

// Update edits an existing class and its subject assignments.
func (s *ClassService) Update(ctx context.Context, id string, req ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	class.Name = req.Name
	class.Grade = req.Grade
	class.Section = req.Section
	class.TeacherID = req.TeacherID
	if req.AcademicYear != "" {
		class.AcademicYear = req.AcademicYear
	}

	if err := s.repo.Update(ctx, class); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class name already in use")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update class")
	}

	if req.Subjects != nil {
		if err := s.replaceSubjects(ctx, class, req.Subjects); err != nil {
			return nil, err
		}
	}

	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete class")
	}
	return nil
}

func (s *ClassService) replaceSubjects(ctx context.Context, class *models.Class, assignments []SubjectAssignment) error {
	subjects := make([]models.ClassSubject, 0, len(assignments))
	for _, a := range assignments {
		subjects = append(subjects, models.ClassSubject{ClassID: class.ID, Subject: a.Subject, TeacherID: a.TeacherID})
	}
	if err := s.repo.ReplaceSubjects(ctx, class.ID, subjects); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to store class subjects")
	}
	class.Subjects = subjects
	return nil
}
