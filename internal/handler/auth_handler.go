package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service. One handler serves
// all three role partitions; the role is fixed per route group.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate account
// @Description Authenticate by school id and password within one role partition
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/login [post]
func (h *AuthHandler) Login(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
			return
		}
		req.IP = c.ClientIP()
		req.UserAgent = c.GetHeader("User-Agent")

		res, err := h.service.Login(c.Request.Context(), role, req)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.JSON(c, http.StatusOK, res, nil)
	}
}

// Logout godoc
// @Summary Revoke the caller's session
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /students/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	identity := identityFromContext(c)
	if err := h.service.Logout(c.Request.Context(), identity, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "logged out"}, nil)
}

// Me godoc
// @Summary Describe the authenticated account
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /students/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil || identity.User == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthenticated, ""))
		return
	}

	user := identity.User
	response.JSON(c, http.StatusOK, models.UserInfo{
		ID:       user.ID,
		SchoolID: user.SchoolID,
		FullName: user.FullName,
		Role:     user.Role,
		ClassID:  user.ClassID,
		Grade:    user.Grade,
	}, nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Description Verifies the old password and revokes every session on success
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body changePasswordRequest true "Password payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil || identity.User == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthenticated, ""))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), identity.User.ID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "password changed, login again"}, nil)
}
