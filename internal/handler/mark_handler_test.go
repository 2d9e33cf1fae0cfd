package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/middleware"
	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/repository"
	"github.com/campushq/school-api/internal/service"
	"github.com/campushq/school-api/pkg/response"
)

type markRepoStub struct {
	marks      []models.Mark
	duplicates bool
	lastFilter models.MarkFilter
}

func (m *markRepoStub) FindByID(ctx context.Context, id string) (*models.Mark, error) {
	return nil, sql.ErrNoRows
}

func (m *markRepoStub) List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, int, error) {
	m.lastFilter = filter
	return m.marks, len(m.marks), nil
}

func (m *markRepoStub) Create(ctx context.Context, mark *models.Mark) error {
	if m.duplicates {
		return repository.ErrDuplicate
	}
	mark.ID = "mk1"
	m.marks = append(m.marks, *mark)
	return nil
}

func (m *markRepoStub) Update(ctx context.Context, mark *models.Mark) error { return sql.ErrNoRows }
func (m *markRepoStub) Delete(ctx context.Context, id string) error         { return sql.ErrNoRows }

type auditRepoStub struct{}

func (auditRepoStub) Create(ctx context.Context, entry *models.AuditLog) error { return nil }
func (auditRepoStub) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error) {
	return nil, 0, nil
}

func withIdentity(identity *models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextIdentityKey, identity)
	}
}

func newMarkRouter(repo *markRepoStub, identity *models.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewMarkService(repo, validator.New(), zap.NewNop())
	audit := service.NewAuditService(auditRepoStub{}, zap.NewNop())
	h := NewMarkHandler(svc, audit)

	r := gin.New()
	r.Use(withIdentity(identity))
	r.POST("/marks", h.Record)
	r.GET("/marks", h.ListMine)
	return r
}

func teacherIdentity() *models.Identity {
	return &models.Identity{
		User:    &models.User{ID: "t1", Role: models.RoleTeacher},
		Session: &models.Session{ID: "s1"},
	}
}

func TestMarkHandlerRecord(t *testing.T) {
	repo := &markRepoStub{}
	r := newMarkRouter(repo, teacherIdentity())

	payload, _ := json.Marshal(service.MarkRequest{
		StudentID: "u1",
		Subject:   "Mathematics",
		Obtained:  42,
		Total:     50,
		ExamType:  "MIDTERM",
		Semester:  1,
		Date:      time.Now(),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/marks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mathematics")
}

func TestMarkHandlerRecordDuplicate(t *testing.T) {
	repo := &markRepoStub{duplicates: true}
	r := newMarkRouter(repo, teacherIdentity())

	payload, _ := json.Marshal(service.MarkRequest{
		StudentID: "u1",
		Subject:   "Mathematics",
		Obtained:  42,
		Total:     50,
		ExamType:  "MIDTERM",
		Semester:  1,
		Date:      time.Now(),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/marks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestMarkHandlerListMineScopesToCaller(t *testing.T) {
	repo := &markRepoStub{marks: []models.Mark{
		{ID: "mk1", StudentID: "stu-9", Subject: "Mathematics", Obtained: 42, Total: 50, ExamType: models.ExamMidterm, Semester: 1, Date: time.Now()},
	}}
	identity := &models.Identity{
		User:    &models.User{ID: "stu-9", Role: models.RoleStudent},
		Session: &models.Session{ID: "s2"},
	}
	r := newMarkRouter(repo, identity)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/marks?student_id=someone-else", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-9", repo.lastFilter.StudentID, "student listing must ignore foreign student_id params")
}
