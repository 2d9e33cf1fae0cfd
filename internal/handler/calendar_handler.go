package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// CalendarHandler wires HTTP endpoints to the calendar service.
type CalendarHandler struct {
	service *service.CalendarService
	audit   *service.AuditService
}

// NewCalendarHandler creates a new handler.
func NewCalendarHandler(svc *service.CalendarService, audit *service.AuditService) *CalendarHandler {
	return &CalendarHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List calendar events
// @Description Events overlapping the requested window
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/calendar [get]
func (h *CalendarHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.CalendarFilter{
		From:     queryDate(c, "from"),
		To:       queryDate(c, "to"),
		Page:     page,
		PageSize: pageSize,
	}

	events, pagination, hit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination, cacheMeta(hit))
}

// Create godoc
// @Summary Create a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CalendarEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/calendar [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Create(c.Request.Context(), identity.User.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "calendar_event", event.ID,
		"calendar event created", c.ClientIP(), c.GetHeader("User-Agent"), gin.H{"title": event.Title})

	response.Created(c, event)
}

// Update godoc
// @Summary Edit a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event id"
// @Param payload body service.CalendarEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/calendar/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "calendar_event", event.ID,
		"calendar event updated", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete a calendar event
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/calendar/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionDelete, "calendar_event", id,
		"calendar event deleted", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.NoContent(c)
}
