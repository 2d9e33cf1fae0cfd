package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// MarkHandler wires HTTP endpoints to the mark service.
type MarkHandler struct {
	service *service.MarkService
	audit   *service.AuditService
}

// NewMarkHandler creates a new handler.
func NewMarkHandler(svc *service.MarkService, audit *service.AuditService) *MarkHandler {
	return &MarkHandler{service: svc, audit: audit}
}

// Record godoc
// @Summary Record a mark
// @Description One row per student, subject, exam type and semester
// @Tags Marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.MarkRequest true "Mark payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teachers/marks [post]
func (h *MarkHandler) Record(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark payload"))
		return
	}

	mark, err := h.service.Record(c.Request.Context(), identity.User.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "mark", mark.ID,
		"mark recorded", c.ClientIP(), c.GetHeader("User-Agent"),
		gin.H{"student_id": mark.StudentID, "subject": mark.Subject, "exam_type": mark.ExamType})

	response.Created(c, mark)
}

// List godoc
// @Summary List marks
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student id"
// @Param class_id query string false "Class id"
// @Param subject query string false "Subject"
// @Param exam_type query string false "QUIZ, ASSIGNMENT, MIDTERM or FINAL"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/marks [get]
func (h *MarkHandler) List(c *gin.Context) {
	filter := markFilterFromQuery(c)
	filter.StudentID = c.Query("student_id")
	filter.ClassID = c.Query("class_id")

	marks, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, pagination)
}

// ListMine godoc
// @Summary List the caller's own marks
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Param subject query string false "Subject"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/marks [get]
func (h *MarkHandler) ListMine(c *gin.Context) {
	identity := identityFromContext(c)

	filter := markFilterFromQuery(c)
	filter.StudentID = identity.User.ID

	marks, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, pagination)
}

// Update godoc
// @Summary Edit an existing mark's score
// @Tags Marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mark id"
// @Param payload body service.UpdateMarkRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/marks/{id} [put]
func (h *MarkHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark payload"))
		return
	}

	mark, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "mark", mark.ID,
		"mark updated", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, mark, nil)
}

// Delete godoc
// @Summary Delete a mark
// @Tags Marks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mark id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /teachers/marks/{id} [delete]
func (h *MarkHandler) Delete(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionDelete, "mark", id,
		"mark deleted", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.NoContent(c)
}

func markFilterFromQuery(c *gin.Context) models.MarkFilter {
	page, pageSize := pageParams(c)
	filter := models.MarkFilter{
		Subject:  c.Query("subject"),
		Semester: queryIntPtr(c, "semester"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("exam_type"); raw != "" {
		examType := models.ExamType(raw)
		filter.ExamType = &examType
	}
	return filter
}
