package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/repository"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type timetableRepository interface {
	FindByID(ctx context.Context, id string) (*models.TimetableSlot, error)
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlot, error)
	Create(ctx context.Context, slot *models.TimetableSlot) error
	Update(ctx context.Context, slot *models.TimetableSlot) error
	Delete(ctx context.Context, id string) error
}

// TimetableSlotRequest is the admin payload for creating or editing a slot.
type TimetableSlotRequest struct {
	ClassID   string `json:"class_id" validate:"required"`
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	Period    int    `json:"period" validate:"required,min=1,max=12"`
	Subject   string `json:"subject" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// TimetableService provides timetable use cases with a read-through cache
// on the list path.
type TimetableService struct {
	repo      timetableRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService instance.
func NewTimetableService(repo timetableRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns the ordered slots for a class or teacher; zero matches
// yield 404.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlot, bool, error) {
	key := timetableCacheKey(filter)

	var cached []models.TimetableSlot
	if s.cache.Get(ctx, key, &cached) {
		if len(cached) == 0 {
			return nil, true, appErrors.Clone(appErrors.ErrNotFound, "no timetable entries found")
		}
		return cached, true, nil
	}

	slots, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list timetable")
	}

	s.cache.Set(ctx, key, slots, s.cacheTTL)

	if len(slots) == 0 {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "no timetable entries found")
	}
	return slots, false, nil
}

// Create registers a new slot. A second slot for the same class, day and
// period comes back as 409.
func (s *TimetableService) Create(ctx context.Context, req TimetableSlotRequest) (*models.TimetableSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	slot := &models.TimetableSlot{
		ClassID:   req.ClassID,
		DayOfWeek: req.DayOfWeek,
		Period:    req.Period,
		Subject:   req.Subject,
		TeacherID: &req.TeacherID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "slot already exists for this class, day and period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create timetable slot")
	}

	s.cache.Invalidate(ctx, "timetable:*")
	return slot, nil
}

// Update edits an existing slot.
func (s *TimetableService) Update(ctx context.Context, id string, req TimetableSlotRequest) (*models.TimetableSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load timetable slot")
	}

	slot.ClassID = req.ClassID
	slot.DayOfWeek = req.DayOfWeek
	slot.Period = req.Period
	slot.Subject = req.Subject
	slot.TeacherID = &req.TeacherID
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime

	if err := s.repo.Update(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "slot already exists for this class, day and period")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update timetable slot")
	}

	s.cache.Invalidate(ctx, "timetable:*")
	return slot, nil
}

// Delete removes a slot.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete timetable slot")
	}

	s.cache.Invalidate(ctx, "timetable:*")
	return nil
}

func timetableCacheKey(filter models.TimetableFilter) string {
	class, teacher := filter.ClassID, filter.TeacherID
	if class == "" {
		class = "all"
	}
	if teacher == "" {
		teacher = "all"
	}
	day := 0
	if filter.DayOfWeek != nil {
		day = *filter.DayOfWeek
	}
	return fmt.Sprintf("timetable:%s:%s:%d", class, teacher, day)
}
