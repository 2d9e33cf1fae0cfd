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

type noticeRepository interface {
	FindByID(ctx context.Context, id string) (*models.Notice, error)
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error)
	Create(ctx context.Context, notice *models.Notice) error
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id string) error
}

// NoticeRequest is the admin payload for creating or editing a notice.
type NoticeRequest struct {
	ClassID     *string   `json:"class_id,omitempty"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
}

// NoticeService provides notice use cases with a read-through cache on the
// list path.
type NoticeService struct {
	repo      noticeRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoticeService constructs a NoticeService instance.
func NewNoticeService(repo noticeRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

type cachedNoticeList struct {
	Notices []models.Notice `json:"notices"`
	Total   int             `json:"total"`
}

// List returns notices for the given scope; zero matches yield 404.
func (s *NoticeService) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, *models.Pagination, bool, error) {
	key := noticeCacheKey(filter)

	var cached cachedNoticeList
	if s.cache.Get(ctx, key, &cached) {
		if len(cached.Notices) == 0 {
			return nil, nil, true, appErrors.Clone(appErrors.ErrNotFound, "no notices found")
		}
		return cached.Notices, paginationFor(filter.Page, filter.PageSize, cached.Total), true, nil
	}

	notices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list notices")
	}

	s.cache.Set(ctx, key, cachedNoticeList{Notices: notices, Total: total}, s.cacheTTL)

	if len(notices) == 0 {
		return nil, nil, false, appErrors.Clone(appErrors.ErrNotFound, "no notices found")
	}
	return notices, paginationFor(filter.Page, filter.PageSize, total), false, nil
}

// Create registers a new notice and invalidates the list cache.
func (s *NoticeService) Create(ctx context.Context, createdBy string, req NoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}

	notice := &models.Notice{
		ClassID:     req.ClassID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create notice")
	}

	s.cache.Invalidate(ctx, "notices:*")
	return notice, nil
}

// Update edits an existing notice and invalidates the list cache.
func (s *NoticeService) Update(ctx context.Context, id string, req NoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}

	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load notice")
	}

	notice.ClassID = req.ClassID
	notice.Title = req.Title
	notice.Description = req.Description
	notice.Date = req.Date

	if err := s.repo.Update(ctx, notice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update notice")
	}

	s.cache.Invalidate(ctx, "notices:*")
	return notice, nil
}

// Delete removes a notice and invalidates the list cache.
func (s *NoticeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete notice")
	}

	s.cache.Invalidate(ctx, "notices:*")
	return nil
}

func noticeCacheKey(filter models.NoticeFilter) string {
	class := "all"
	if filter.ClassID != nil {
		class = *filter.ClassID
	}
	from, to := "", ""
	if filter.From != nil {
		from = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		to = filter.To.Format("2006-01-02")
	}
	return fmt.Sprintf("notices:%s:%s:%s:%d:%d", class, from, to, filter.Page, filter.PageSize)
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
