package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// ClassHandler wires class management endpoints to the class service.
type ClassHandler struct {
	service *service.ClassService
	audit   *service.AuditService
}

// NewClassHandler creates a new handler.
func NewClassHandler(svc *service.ClassService, audit *service.AuditService) *ClassHandler {
	return &ClassHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param name query string false "Class name"
// @Param grade query int false "Grade"
// @Success 200 {object} response.Envelope
// @Router /admin/classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.ClassFilter{
		Name:     c.Query("name"),
		Grade:    queryIntPtr(c, "grade"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("teacher_id"); raw != "" {
		filter.TeacherID = &raw
	}

	classes, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// Get godoc
// @Summary Fetch one class with its subjects
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Create godoc
// @Summary Create a class
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "class", class.ID,
		"class created", c.ClientIP(), c.GetHeader("User-Agent"), gin.H{"name": class.Name})

	response.Created(c, class)
}

// Update godoc
// @Summary Edit a class
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class id"
// @Param payload body service.ClassRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "class", class.ID,
		"class updated", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, class, nil)
}

// Delete godoc
// @Summary Delete a class
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionDelete, "class", id,
		"class deleted", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.NoContent(c)
}
