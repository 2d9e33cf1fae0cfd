package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	"github.com/campushq/school-api/pkg/response"
)

// AuditHandler exposes the audit trail to admins.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler creates a new handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit trail entries
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param action query string false "CREATE, UPDATE, DELETE, LOGIN, LOGOUT or SYSTEM"
// @Param entity_type query string false "Entity type"
// @Param actor_id query string false "Actor account id"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /admin/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.AuditFilter{
		EntityType: c.Query("entity_type"),
		ActorID:    c.Query("actor_id"),
		From:       queryDate(c, "from"),
		To:         queryDate(c, "to"),
		Page:       page,
		PageSize:   pageSize,
	}
	if raw := c.Query("action"); raw != "" {
		action := models.AuditAction(raw)
		filter.Action = &action
	}

	entries, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}
