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
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type calendarRepository interface {
	FindByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

// CalendarEventRequest is the admin payload for creating or editing an event.
type CalendarEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

// CalendarService provides school calendar use cases.
type CalendarService struct {
	repo      calendarRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs a CalendarService instance.
func NewCalendarService(repo calendarRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

type cachedEventList struct {
	Events []models.CalendarEvent `json:"events"`
	Total  int                    `json:"total"`
}

// List returns events overlapping the filter window; zero matches yield 404.
func (s *CalendarService) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, *models.Pagination, bool, error) {
	key := calendarCacheKey(filter)

	var cached cachedEventList
	if s.cache.Get(ctx, key, &cached) {
		if len(cached.Events) == 0 {
			return nil, nil, true, appErrors.Clone(appErrors.ErrNotFound, "no calendar events found")
		}
		return cached.Events, paginationFor(filter.Page, filter.PageSize, cached.Total), true, nil
	}

	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list calendar events")
	}

	s.cache.Set(ctx, key, cachedEventList{Events: events, Total: total}, s.cacheTTL)

	if len(events) == 0 {
		return nil, nil, false, appErrors.Clone(appErrors.ErrNotFound, "no calendar events found")
	}
	return events, paginationFor(filter.Page, filter.PageSize, total), false, nil
}

// Create registers a new event.
func (s *CalendarService) Create(ctx context.Context, createdBy string, req CalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}

	event := &models.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create calendar event")
	}

	s.cache.Invalidate(ctx, "calendar:*")
	return event, nil
}

// Update edits an existing event.
func (s *CalendarService) Update(ctx context.Context, id string, req CalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load calendar event")
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate

	if err := s.repo.Update(ctx, event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update calendar event")
	}

	s.cache.Invalidate(ctx, "calendar:*")
	return event, nil
}

// Delete removes an event.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "calendar event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete calendar event")
	}

	s.cache.Invalidate(ctx, "calendar:*")
	return nil
}

func calendarCacheKey(filter models.CalendarFilter) string {
	from, to := "", ""
	if filter.From != nil {
		from = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		to = filter.To.Format("2006-01-02")
	}
	return fmt.Sprintf("calendar:%s:%s:%d:%d", from, to, filter.Page, filter.PageSize)
}
