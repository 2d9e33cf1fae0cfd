package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type mockClassRepo struct {
	classes  map[string]*models.Class
	subjects map[string][]models.ClassSubject
}

func (m *mockClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) FindByName(ctx context.Context, name string) (*models.Class, error) {
	for _, c := range m.classes {
		if strings.EqualFold(c.Name, name) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	out := make([]models.Class, 0, len(m.classes))
	for _, c := range m.classes {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	if m.classes == nil {
		m.classes = make(map[string]*models.Class)
	}
	if class.ID == "" {
		class.ID = "generated"
	}
	copied := *class
	m.classes[class.ID] = &copied
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	if _, ok := m.classes[class.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *class
	m.classes[class.ID] = &copied
	return nil
}

func (m *mockClassRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.classes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) ListSubjects(ctx context.Context, classID string) ([]models.ClassSubject, error) {
	return m.subjects[classID], nil
}

func (m *mockClassRepo) ReplaceSubjects(ctx context.Context, classID string, subjects []models.ClassSubject) error {
	if m.subjects == nil {
		m.subjects = make(map[string][]models.ClassSubject)
	}
	m.subjects[classID] = subjects
	return nil
}

func TestClassServiceListEmptyIsNormalPage(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, validator.New(), zap.NewNop())

	classes, pagination, err := svc.List(context.Background(), models.ClassFilter{})
	require.NoError(t, err)
	assert.NotNil(t, classes)
	assert.Empty(t, classes)
	require.NotNil(t, pagination)
	assert.Equal(t, 0, pagination.TotalCount)
}

func TestClassServiceCreate(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, validator.New(), zap.NewNop())

	teacherID := "t1"
	class, err := svc.Create(context.Background(), ClassRequest{
		Name:      "7A",
		Grade:     7,
		Section:   "A",
		TeacherID: &teacherID,
		Subjects:  []SubjectAssignment{{Subject: "Mathematics", TeacherID: &teacherID}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAcademicYear(time.Now()), class.AcademicYear)
	assert.Len(t, repo.subjects[class.ID], 1)
}

func TestClassServiceCreateDuplicateName(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]*models.Class{
		"c1": {ID: "c1", Name: "7A", Grade: 7, Section: "A"},
	}}
	svc := NewClassService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), ClassRequest{Name: "7a", Grade: 7, Section: "A"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Len(t, repo.classes, 1)
}

func TestClassServiceGetIncludesSubjects(t *testing.T) {
	repo := &mockClassRepo{
		classes: map[string]*models.Class{
			"c1": {ID: "c1", Name: "7A", Grade: 7, Section: "A"},
		},
		subjects: map[string][]models.ClassSubject{
			"c1": {{ID: "cs1", ClassID: "c1", Subject: "Physics"}},
		},
	}
	svc := NewClassService(repo, validator.New(), zap.NewNop())

	class, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, class.Subjects, 1)
	assert.Equal(t, "Physics", class.Subjects[0].Subject)
}
