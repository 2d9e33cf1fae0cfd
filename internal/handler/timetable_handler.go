package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// TimetableHandler wires HTTP endpoints to the timetable service.
type TimetableHandler struct {
	service *service.TimetableService
	audit   *service.AuditService
}

// NewTimetableHandler creates a new handler.
func NewTimetableHandler(svc *service.TimetableService, audit *service.AuditService) *TimetableHandler {
	return &TimetableHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List timetable slots
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param class_id query string false "Class id"
// @Param teacher_id query string false "Teacher id"
// @Param day_of_week query int false "ISO day of week (1-7)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	filter := models.TimetableFilter{
		ClassID:   c.Query("class_id"),
		TeacherID: c.Query("teacher_id"),
		DayOfWeek: queryIntPtr(c, "day_of_week"),
	}

	slots, hit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, cacheMeta(hit))
}

// ListMine godoc
// @Summary List the caller's timetable
// @Description Students see their class timetable, teachers their own slots
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param day_of_week query int false "ISO day of week (1-7)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/timetable [get]
func (h *TimetableHandler) ListMine(c *gin.Context) {
	identity := identityFromContext(c)

	filter := models.TimetableFilter{DayOfWeek: queryIntPtr(c, "day_of_week")}
	switch identity.User.Role {
	case models.RoleTeacher:
		filter.TeacherID = identity.User.ID
	default:
		if identity.User.ClassID == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no timetable entries found"))
			return
		}
		filter.ClassID = *identity.User.ClassID
	}

	slots, hit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, cacheMeta(hit))
}

// Create godoc
// @Summary Create a timetable slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.TimetableSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.TimetableSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}

	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "timetable_slot", slot.ID,
		"timetable slot created", c.ClientIP(), c.GetHeader("User-Agent"),
		gin.H{"class_id": slot.ClassID, "day_of_week": slot.DayOfWeek, "period": slot.Period})

	response.Created(c, slot)
}

// Update godoc
// @Summary Edit a timetable slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot id"
// @Param payload body service.TimetableSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.TimetableSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}

	slot, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "timetable_slot", slot.ID,
		"timetable slot updated", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Delete a timetable slot
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionDelete, "timetable_slot", id,
		"timetable slot deleted", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.NoContent(c)
}
