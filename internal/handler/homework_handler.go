package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// HomeworkHandler wires HTTP endpoints to the homework service.
type HomeworkHandler struct {
	service *service.HomeworkService
	audit   *service.AuditService
}

// NewHomeworkHandler creates a new handler.
func NewHomeworkHandler(svc *service.HomeworkService, audit *service.AuditService) *HomeworkHandler {
	return &HomeworkHandler{service: svc, audit: audit}
}

// Create godoc
// @Summary Assign homework to a grade
// @Tags Homework
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.HomeworkRequest true "Homework payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teachers/homework [post]
func (h *HomeworkHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.HomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid homework payload"))
		return
	}

	hw, err := h.service.Create(c.Request.Context(), identity.User.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "homework", hw.ID,
		"homework created", c.ClientIP(), c.GetHeader("User-Agent"), gin.H{"grade": hw.Grade, "title": hw.Title})

	response.Created(c, hw)
}

// List godoc
// @Summary List homework
// @Tags Homework
// @Produce json
// @Security BearerAuth
// @Param grade query int false "Grade"
// @Param due_from query string false "Due from (YYYY-MM-DD)"
// @Param due_to query string false "Due to (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/homework [get]
func (h *HomeworkHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.HomeworkFilter{
		Grade:     queryIntPtr(c, "grade"),
		CreatedBy: c.Query("created_by"),
		DueFrom:   queryDate(c, "due_from"),
		DueTo:     queryDate(c, "due_to"),
		Page:      page,
		PageSize:  pageSize,
	}

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// ListMine godoc
// @Summary List homework for the caller's grade
// @Tags Homework
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/homework [get]
func (h *HomeworkHandler) ListMine(c *gin.Context) {
	identity := identityFromContext(c)
	if identity.User.Grade == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no homework records found"))
		return
	}

	page, pageSize := pageParams(c)
	filter := models.HomeworkFilter{
		Grade:    identity.User.Grade,
		DueFrom:  queryDate(c, "due_from"),
		DueTo:    queryDate(c, "due_to"),
		Page:     page,
		PageSize: pageSize,
	}

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Update godoc
// @Summary Edit homework owned by the caller
// @Tags Homework
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Homework id"
// @Param payload body service.HomeworkRequest true "Homework payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/homework/{id} [put]
func (h *HomeworkHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.HomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid homework payload"))
		return
	}

	hw, err := h.service.Update(c.Request.Context(), c.Param("id"), identity.User.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "homework", hw.ID,
		"homework updated", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, hw, nil)
}

// Delete godoc
// @Summary Delete homework owned by the caller
// @Tags Homework
// @Produce json
// @Security BearerAuth
// @Param id path string true "Homework id"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/homework/{id} [delete]
func (h *HomeworkHandler) Delete(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id, identity.User.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionDelete, "homework", id,
		"homework deleted", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.NoContent(c)
}
