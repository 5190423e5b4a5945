package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every object body carries a "message"; collections are sent as bare arrays.

// Success sends a 200 response with data as the body
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with data as the body
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends {"message": message} with the given status, merging extra fields
func Message(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// OK sends a 200 message response
func OK(c *gin.Context, message string) {
	Message(c, http.StatusOK, message, nil)
}

// BadRequest sends a 400 error response
func BadRequest(c *gin.Context, message string) {
	Message(c, http.StatusBadRequest, message, nil)
}

// Unauthorized sends a 401 error response with a redirect hint for the frontend
func Unauthorized(c *gin.Context, message, redirect string) {
	var extra gin.H
	if redirect != "" {
		extra = gin.H{"redirect": redirect}
	}
	Message(c, http.StatusUnauthorized, message, extra)
}

// Forbidden sends a 403 error response
func Forbidden(c *gin.Context, message string) {
	Message(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 error response
func NotFound(c *gin.Context, message string) {
	Message(c, http.StatusNotFound, message, nil)
}

// Conflict sends a 409 error response
func Conflict(c *gin.Context, message string) {
	Message(c, http.StatusConflict, message, nil)
}

// InternalError sends a 500 error response; detail, when not empty, is sent as "error"
func InternalError(c *gin.Context, message, detail string) {
	var extra gin.H
	if detail != "" {
		extra = gin.H{"error": detail}
	}
	Message(c, http.StatusInternalServerError, message, extra)
}
