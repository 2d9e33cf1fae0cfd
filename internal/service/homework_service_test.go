package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type mockHomeworkRepo struct {
	records map[string]models.Homework
}

func (m *mockHomeworkRepo) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	if hw, ok := m.records[id]; ok {
		return &hw, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockHomeworkRepo) List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, int, error) {
	out := make([]models.Homework, 0, len(m.records))
	for _, hw := range m.records {
		out = append(out, hw)
	}
	return out, len(out), nil
}

func (m *mockHomeworkRepo) Create(ctx context.Context, hw *models.Homework) error {
	if m.records == nil {
		m.records = make(map[string]models.Homework)
	}
	if hw.ID == "" {
		hw.ID = "generated"
	}
	m.records[hw.ID] = *hw
	return nil
}

func (m *mockHomeworkRepo) Update(ctx context.Context, hw *models.Homework) error {
	if _, ok := m.records[hw.ID]; !ok {
		return sql.ErrNoRows
	}
	m.records[hw.ID] = *hw
	return nil
}

func (m *mockHomeworkRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.records, id)
	return nil
}

func validHomeworkRequest() HomeworkRequest {
	now := time.Now()
	return HomeworkRequest{
		Grade:       7,
		Title:       "Fractions worksheet",
		Description: "Complete exercises 1-10",
		AssignDate:  now,
		DueDate:     now.Add(72 * time.Hour),
	}
}

func TestHomeworkServiceCreate(t *testing.T) {
	repo := &mockHomeworkRepo{}
	svc := NewHomeworkService(repo, validator.New(), zap.NewNop())

	hw, err := svc.Create(context.Background(), "t1", validHomeworkRequest())
	require.NoError(t, err)
	assert.Equal(t, "t1", hw.CreatedBy)
	assert.Len(t, repo.records, 1)
}

func TestHomeworkServiceCreateDueBeforeAssign(t *testing.T) {
	svc := NewHomeworkService(&mockHomeworkRepo{}, validator.New(), zap.NewNop())

	req := validHomeworkRequest()
	req.DueDate = req.AssignDate.Add(-time.Hour)
	_, err := svc.Create(context.Background(), "t1", req)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestHomeworkServiceUpdateOwnership(t *testing.T) {
	repo := &mockHomeworkRepo{}
	svc := NewHomeworkService(repo, validator.New(), zap.NewNop())

	hw, err := svc.Create(context.Background(), "t1", validHomeworkRequest())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), hw.ID, "t2", validHomeworkRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Equal(t, http.StatusForbidden, appErr.Status)

	_, err = svc.Update(context.Background(), hw.ID, "t1", validHomeworkRequest())
	require.NoError(t, err)
}

func TestHomeworkServiceDeleteOwnership(t *testing.T) {
	repo := &mockHomeworkRepo{}
	svc := NewHomeworkService(repo, validator.New(), zap.NewNop())

	hw, err := svc.Create(context.Background(), "t1", validHomeworkRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), hw.ID, "t2")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), hw.ID, "t1"))
	assert.Empty(t, repo.records)
}

func TestHomeworkServiceListEmptyIsNotFound(t *testing.T) {
	svc := NewHomeworkService(&mockHomeworkRepo{}, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.HomeworkFilter{})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}
