package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/repository"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type userRepository interface {
	FindBySchoolID(ctx context.Context, schoolID string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// CreateAccountRequest is the admin payload for creating an account.
type CreateAccountRequest struct {
	SchoolID string  `json:"school_id" validate:"required"`
	FullName string  `json:"full_name" validate:"required"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,oneof=STUDENT TEACHER ADMIN"`
	ClassID  *string `json:"class_id,omitempty"`
	Grade    *int    `json:"grade,omitempty"`
	Subject  *string `json:"subject,omitempty"`
}

// UpdateAccountRequest is the admin payload for editing an account.
type UpdateAccountRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	ClassID  *string `json:"class_id,omitempty"`
	Grade    *int    `json:"grade,omitempty"`
	Subject  *string `json:"subject,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// UserService provides account management use cases for the admin role.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns accounts for one role partition. Admin management lists page
// normally; zero matches is an empty page, not an error.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list accounts")
	}
	if users == nil {
		users = []models.User{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return users, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load account")
	}
	return user, nil
}

// Create registers a new account with a hashed password.
func (s *UserService) Create(ctx context.Context, req CreateAccountRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}

	role := models.UserRole(req.Role)
	if role == models.RoleStudent && (req.ClassID == nil || req.Grade == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "students require a class and grade")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to hash password")
	}

	user := &models.User{
		SchoolID:     req.SchoolID,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
		ClassID:      req.ClassID,
		Grade:        req.Grade,
		Subject:      req.Subject,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "school id already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create account")
	}

	return user, nil
}

// Update edits the mutable fields of an existing account.
func (s *UserService) Update(ctx context.Context, id string, req UpdateAccountRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FullName = req.FullName
	user.ClassID = req.ClassID
	user.Grade = req.Grade
	user.Subject = req.Subject
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update account")
	}

	return user, nil
}

// ResetPassword replaces an account's password hash with a new one.
func (s *UserService) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < 6 {
		return appErrors.Clone(appErrors.ErrValidation, "password must be at least 6 characters")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, id, string(hash), time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to reset password")
	}

	return nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to delete account")
	}
	return nil
}
