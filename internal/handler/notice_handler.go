package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// NoticeHandler wires HTTP endpoints to the notice service.
type NoticeHandler struct {
	service *service.NoticeService
	audit   *service.AuditService
}

// NewNoticeHandler creates a new handler.
func NewNoticeHandler(svc *service.NoticeService, audit *service.AuditService) *NoticeHandler {
	return &NoticeHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List notices
// @Description School-wide notices plus the requested class scope
// @Tags Notices
// @Produce json
// @Security BearerAuth
// @Param class_id query string false "Class id"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	filter := noticeFilterFromQuery(c)
	if raw := c.Query("class_id"); raw != "" {
		filter.ClassID = &raw
	}

	notices, pagination, hit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices, pagination, cacheMeta(hit))
}

// ListMine godoc
// @Summary List notices for the caller's class
// @Tags Notices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/notices [get]
func (h *NoticeHandler) ListMine(c *gin.Context) {
	identity := identityFromContext(c)

	filter := noticeFilterFromQuery(c)
	filter.ClassID = identity.User.ClassID

	notices, pagination, hit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices, pagination, cacheMeta(hit))
}

// Create godoc
// @Summary Publish a notice
// @Tags Notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.NoticeRequest true "Notice payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}

	notice, err := h.service.Create(c.Request.Context(), identity.User.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "notice", notice.ID,
		"notice published", c.ClientIP(), c.GetHeader("User-Agent"), gin.H{"title": notice.Title})

	response.Created(c, notice)
}

// Update godoc
// @Summary Edit a notice
// @Tags Notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notice id"
// @Param payload body service.NoticeRequest true "Notice payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}

	notice, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "notice", notice.ID,
		"notice updated", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, notice, nil)
}

// Delete godoc
// @Summary Delete a notice
// @Tags Notices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notice id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionDelete, "notice", id,
		"notice deleted", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.NoContent(c)
}

func noticeFilterFromQuery(c *gin.Context) models.NoticeFilter {
	page, pageSize := pageParams(c)
	return models.NoticeFilter{
		From:     queryDate(c, "from"),
		To:       queryDate(c, "to"),
		Page:     page,
		PageSize: pageSize,
	}
}
