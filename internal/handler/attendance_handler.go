package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
	audit   *service.AuditService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService, audit *service.AuditService) *AttendanceHandler {
	return &AttendanceHandler{service: svc, audit: audit}
}

// Take godoc
// @Summary Record attendance for a class on a date
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.TakeAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teachers/attendance [post]
func (h *AttendanceHandler) Take(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.TakeAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	records, err := h.service.Take(c.Request.Context(), identity.User.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "attendance", req.ClassID,
		"attendance recorded", c.ClientIP(), c.GetHeader("User-Agent"),
		gin.H{"class_id": req.ClassID, "date": req.Date, "students": len(records)})

	response.Created(c, records)
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student id"
// @Param class_id query string false "Class id"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param status query string false "PRESENT or ABSENT"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := attendanceFilterFromQuery(c)
	filter.StudentID = c.Query("student_id")

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// ListMine godoc
// @Summary List the caller's own attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/attendance [get]
func (h *AttendanceHandler) ListMine(c *gin.Context) {
	identity := identityFromContext(c)

	filter := attendanceFilterFromQuery(c)
	filter.StudentID = identity.User.ID
	filter.ClassID = ""

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

func attendanceFilterFromQuery(c *gin.Context) models.AttendanceFilter {
	page, pageSize := pageParams(c)
	filter := models.AttendanceFilter{
		ClassID:  c.Query("class_id"),
		From:     queryDate(c, "from"),
		To:       queryDate(c, "to"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AttendanceStatus(raw)
		if status.Valid() {
			filter.Status = &status
		}
	}
	return filter
}
