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
	"github.com/campushq/school-api/internal/repository"
	appErrors "github.com/campushq/school-api/pkg/errors"
)

type mockTimetableRepo struct {
	slots      map[string]models.TimetableSlot
	duplicates bool
	listCalls  int
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id string) (*models.TimetableSlot, error) {
	if s, ok := m.slots[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableSlot, error) {
	m.listCalls++
	out := make([]models.TimetableSlot, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockTimetableRepo) Create(ctx context.Context, slot *models.TimetableSlot) error {
	if m.duplicates {
		return repository.ErrDuplicate
	}
	if m.slots == nil {
		m.slots = make(map[string]models.TimetableSlot)
	}
	if slot.ID == "" {
		slot.ID = "generated"
	}
	m.slots[slot.ID] = *slot
	return nil
}

func (m *mockTimetableRepo) Update(ctx context.Context, slot *models.TimetableSlot) error {
	if _, ok := m.slots[slot.ID]; !ok {
		return sql.ErrNoRows
	}
	m.slots[slot.ID] = *slot
	return nil
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.slots[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.slots, id)
	return nil
}

func validSlotRequest() TimetableSlotRequest {
	return TimetableSlotRequest{
		ClassID:   "c1",
		DayOfWeek: 1,
		Period:    2,
		Subject:   "Physics",
		TeacherID: "t1",
		StartTime: "09:00",
		EndTime:   "09:45",
	}
}

func newTimetableFixture(repo *mockTimetableRepo) *TimetableService {
	cacheSvc := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	return NewTimetableService(repo, cacheSvc, time.Minute, validator.New(), zap.NewNop())
}

func TestTimetableServiceCreate(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := newTimetableFixture(repo)

	slot, err := svc.Create(context.Background(), validSlotRequest())
	require.NoError(t, err)
	assert.Equal(t, "c1", slot.ClassID)
	assert.Len(t, repo.slots, 1)
}

func TestTimetableServiceCreateConflictingCell(t *testing.T) {
	svc := newTimetableFixture(&mockTimetableRepo{duplicates: true})

	_, err := svc.Create(context.Background(), validSlotRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestTimetableServiceListCaches(t *testing.T) {
	repo := &mockTimetableRepo{slots: map[string]models.TimetableSlot{
		"s1": {ID: "s1", ClassID: "c1", DayOfWeek: 1, Period: 1, Subject: "Physics", StartTime: "08:00", EndTime: "08:45"},
	}}
	svc := newTimetableFixture(repo)

	filter := models.TimetableFilter{ClassID: "c1"}
	slots, hit, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, slots, 1)

	slots, hit, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, slots, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestTimetableServiceListEmptyIsNotFound(t *testing.T) {
	svc := newTimetableFixture(&mockTimetableRepo{})

	_, _, err := svc.List(context.Background(), models.TimetableFilter{ClassID: "c9"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestTimetableServiceDeleteInvalidatesCache(t *testing.T) {
	repo := &mockTimetableRepo{slots: map[string]models.TimetableSlot{
		"s1": {ID: "s1", ClassID: "c1", DayOfWeek: 1, Period: 1, Subject: "Physics", StartTime: "08:00", EndTime: "08:45"},
	}}
	svc := newTimetableFixture(repo)

	_, _, err := svc.List(context.Background(), models.TimetableFilter{ClassID: "c1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "s1"))

	_, _, err = svc.List(context.Background(), models.TimetableFilter{ClassID: "c1"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
	assert.Equal(t, 2, repo.listCalls)
}
