package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/middleware"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/internal/session"
	"github.com/pensao-tracker/pkg/response"
)

// AuthHandler handles authentication API requests
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// Register handles user registration
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgBadRequestBody)
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Message(c, http.StatusCreated, service.MsgRegistered, gin.H{
		"user": user.ToResponse(),
	})
}

// Login handles user login and sets the session cookie
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgBadRequestBody)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	http.SetCookie(c.Writer, h.sessions.Cookie(c.Request, result.Token))
	response.Message(c, http.StatusOK, service.MsgLoggedIn, gin.H{
		"user_name":  result.User.Name,
		"user_email": result.User.Email,
	})
}

// Logout clears the session and expires the cookie
// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, err)
		return
	}

	http.SetCookie(c.Writer, h.sessions.ExpiredCookie(c.Request))
	response.OK(c, service.MsgLoggedOut)
}

// RegisterRoutes registers public auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

// RegisterProtectedRoutes registers routes that need a session
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/logout", h.Logout)
}
