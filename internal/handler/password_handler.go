package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/pkg/response"
)

// PasswordHandler handles password recovery requests
type PasswordHandler struct {
	passwordService *service.PasswordService
}

// NewPasswordHandler creates a new PasswordHandler
func NewPasswordHandler(passwordService *service.PasswordService) *PasswordHandler {
	return &PasswordHandler{
		passwordService: passwordService,
	}
}

// ForgotPassword issues a reset link. The answer does not reveal whether
// the email is registered.
// POST /api/forgot-password
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgBadRequestBody)
		return
	}

	if err := h.passwordService.RequestReset(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, service.MsgResetRequested)
}

// ResetPassword redeems a reset token
// POST /api/reset-password
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgBadRequestBody)
		return
	}

	if err := h.passwordService.ResetPassword(&req); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, service.MsgPasswordReset)
}

// RegisterRoutes registers password recovery routes
func (h *PasswordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.POST("/reset-password", h.ResetPassword)
}
