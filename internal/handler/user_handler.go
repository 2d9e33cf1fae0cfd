package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// UserHandler wires admin account management endpoints to the user service.
type UserHandler struct {
	service *service.UserService
	audit   *service.AuditService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService, audit *service.AuditService) *UserHandler {
	return &UserHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param role query string false "STUDENT, TEACHER or ADMIN"
// @Param class_id query string false "Class id"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /admin/accounts [get]
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.UserFilter{
		SchoolID: c.Query("school_id"),
		Search:   c.Query("search"),
		Grade:    queryIntPtr(c, "grade"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		if role.Valid() {
			filter.Role = &role
		}
	}
	if raw := c.Query("class_id"); raw != "" {
		filter.ClassID = &raw
	}

	users, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Get godoc
// @Summary Fetch one account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/accounts/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Create godoc
// @Summary Create an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateAccountRequest true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/accounts [post]
func (h *UserHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}

	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionCreate, "account", user.ID,
		"account created", c.ClientIP(), c.GetHeader("User-Agent"),
		gin.H{"school_id": user.SchoolID, "role": user.Role})

	response.Created(c, user)
}

// Update godoc
// @Summary Edit an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account id"
// @Param payload body service.UpdateAccountRequest true "Account payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/accounts/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)

	var req service.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}

	user, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "account", user.ID,
		"account updated", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, user, nil)
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ResetPassword godoc
// @Summary Reset an account's password
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account id"
// @Param payload body resetPasswordRequest true "Password payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/accounts/{id}/password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), id, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionUpdate, "account", id,
		"password reset", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.JSON(c, http.StatusOK, gin.H{"message": "password reset"}, nil)
}

// Delete godoc
// @Summary Delete an account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/accounts/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	identity := identityFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), identity, models.AuditActionDelete, "account", id,
		"account deleted", c.ClientIP(), c.GetHeader("User-Agent"), nil)

	response.NoContent(c)
}
