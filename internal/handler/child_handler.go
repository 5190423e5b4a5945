package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/middleware"
	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/pkg/response"
)

// ChildHandler handles children API requests
type ChildHandler struct {
	childService *service.ChildService
}

// NewChildHandler creates a new ChildHandler
func NewChildHandler(childService *service.ChildService) *ChildHandler {
	return &ChildHandler{
		childService: childService,
	}
}

// CreateChild handles child creation
// POST /api/children
func (h *ChildHandler) CreateChild(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.ChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgMissingData)
		return
	}

	child, err := h.childService.Create(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Message(c, http.StatusCreated, service.MsgChildCreated, gin.H{
		"child": child.ToResponse(),
	})
}

// GetChildren lists the children of the authenticated user
// GET /api/children
func (h *ChildHandler) GetChildren(c *gin.Context) {
	userID := middleware.GetUserID(c)

	children, err := h.childService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]models.ChildResponse, len(children))
	for i := range children {
		result[i] = children[i].ToResponse()
	}
	response.Success(c, result)
}

// GetChild returns one child
// GET /api/children/:id
func (h *ChildHandler) GetChild(c *gin.Context) {
	userID := middleware.GetUserID(c)

	childID, ok := parseIDParam(c, "id")
	if !ok {
		response.NotFound(c, service.MsgChildNotFound)
		return
	}

	child, err := h.childService.Get(userID, childID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, child.ToResponse())
}

// UpdateChild handles partial child updates
// PUT /api/children/:id
func (h *ChildHandler) UpdateChild(c *gin.Context) {
	userID := middleware.GetUserID(c)

	childID, ok := parseIDParam(c, "id")
	if !ok {
		response.NotFound(c, service.MsgChildNotFound)
		return
	}

	var req service.ChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgMissingData)
		return
	}

	child, err := h.childService.Update(userID, childID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Message(c, http.StatusOK, service.MsgChildUpdated, gin.H{
		"child": child.ToResponse(),
	})
}

// DeleteChild removes a child and its payments
// DELETE /api/children/:id
func (h *ChildHandler) DeleteChild(c *gin.Context) {
	userID := middleware.GetUserID(c)

	childID, ok := parseIDParam(c, "id")
	if !ok {
		response.NotFound(c, service.MsgChildNotFound)
		return
	}

	if err := h.childService.Delete(userID, childID); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, service.MsgChildDeleted)
}

// RegisterRoutes registers children routes
func (h *ChildHandler) RegisterRoutes(rg *gin.RouterGroup) {
	children := rg.Group("/children")
	{
		children.POST("", h.CreateChild)
		children.GET("", h.GetChildren)
		children.GET("/:id", h.GetChild)
		children.PUT("/:id", h.UpdateChild)
		children.DELETE("/:id", h.DeleteChild)
	}
}
