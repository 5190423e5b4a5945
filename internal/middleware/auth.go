package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/logger"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/pkg/response"
)

const (
	// ContextKeySessionID is the key for the session id in gin context
	ContextKeySessionID = "session_id"
	// ContextKeyUserID is the key for user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail is the key for the user's email in gin context
	ContextKeyUserEmail = "user_email"
	// ContextKeyUserName is the key for the user's name in gin context
	ContextKeyUserName = "user_name"
)

// AuthMiddleware rejects requests without a live session cookie
func AuthMiddleware(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Cookie(cookieName)

		sessionID, data, err := authService.Authenticate(c.Request.Context(), value)
		if err != nil {
			logger.Debug("login required on %s: %v", c.Request.URL.Path, err)
			response.Unauthorized(c, service.MsgUnauthorized, service.UnauthorizedRedirectTo)
			c.Abort()
			return
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Set(ContextKeyUserID, data.UserID)
		c.Set(ContextKeyUserEmail, data.Email)
		c.Set(ContextKeyUserName, data.Name)

		c.Next()
	}
}

// GetUserID gets the user ID from the gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	return userID.(uint)
}

// GetSessionID gets the session id from the gin context
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
