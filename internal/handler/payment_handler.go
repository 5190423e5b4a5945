package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/middleware"
	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/pkg/response"
)

// PaymentHandler handles payment API requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePayment records a payment
// POST /api/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgMissingData)
		return
	}

	payment, err := h.paymentService.Create(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Message(c, http.StatusCreated, service.MsgPaymentCreated, gin.H{
		"payment": payment.ToResponse(),
	})
}

// GetPayments lists the payments of a child, oldest first
// GET /api/payments/:id where id is the child id
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	userID := middleware.GetUserID(c)

	childID, ok := parseIDParam(c, "id")
	if !ok {
		response.NotFound(c, service.MsgChildNotFound)
		return
	}

	payments, err := h.paymentService.ListByChild(userID, childID)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]models.PaymentResponse, len(payments))
	for i := range payments {
		result[i] = payments[i].ToResponse()
	}
	response.Success(c, result)
}

// UpdatePayment handles partial payment updates
// PUT /api/payments/:id
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		response.NotFound(c, service.MsgPaymentNotFound)
		return
	}

	var req service.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.MsgMissingData)
		return
	}

	payment, err := h.paymentService.Update(userID, paymentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Message(c, http.StatusOK, service.MsgPaymentUpdated, gin.H{
		"payment": payment.ToResponse(),
	})
}

// DeletePayment removes a payment
// DELETE /api/payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		response.NotFound(c, service.MsgPaymentNotFound)
		return
	}

	if err := h.paymentService.Delete(userID, paymentID); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, service.MsgPaymentDeleted)
}

// RegisterRoutes registers payment routes. The GET path segment is a child
// id while PUT and DELETE take a payment id.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.CreatePayment)
		payments.GET("/:id", h.GetPayments)
		payments.PUT("/:id", h.UpdatePayment)
		payments.DELETE("/:id", h.DeletePayment)
	}
}
