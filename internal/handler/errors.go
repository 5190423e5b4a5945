package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/logger"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/pkg/response"
)

// respondError writes the response for a service failure
func respondError(c *gin.Context, err error) {
	e := service.AsError(err)

	switch {
	case errors.Is(e, service.ErrValidation),
		errors.Is(e, service.ErrInvalidToken),
		errors.Is(e, service.ErrTokenExpired):
		response.BadRequest(c, e.Message)
	case errors.Is(e, service.ErrUnauthorized):
		response.Unauthorized(c, e.Message, "")
	case errors.Is(e, service.ErrForbidden):
		response.Forbidden(c, e.Message)
	case errors.Is(e, service.ErrNotFound):
		response.NotFound(c, e.Message)
	case errors.Is(e, service.ErrConflict):
		response.Conflict(c, e.Message)
	default:
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, e)
		_ = c.Error(e)
		response.InternalError(c, e.Message, e.Detail)
	}
}

// parseIDParam reads a positive numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
