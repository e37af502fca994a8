package api

import (
	"context"
	"net/http"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	log            *zap.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, log: log}
}

type CreatePaymentRequest struct {
	AppointmentID string               `json:"appointmentId" binding:"required"`
	Amount        int64                `json:"amount" binding:"required,gt=0"`
	Method        domain.PaymentMethod `json:"method" binding:"required,oneof=CARD CASH TRANSFER"`
}

// Create godoc
// @Summary Open a payment for an appointment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body CreatePaymentRequest true "Appointment, amount in minor units and method"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	clientID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	appointmentID, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid appointmentId format")
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), clientID, appointmentID, req.Amount, req.Method)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// List godoc
// @Summary List the caller's payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Payment
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	payments, err := h.paymentService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// Complete godoc
// @Summary Confirm a pending payment as received
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Only the trainer can confirm"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Conflict"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /payments/{id}/complete [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	h.transition(c, h.paymentService.Complete)
}

// Fail godoc
// @Summary Mark a pending payment as failed
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Conflict"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /payments/{id}/fail [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	h.transition(c, h.paymentService.Fail)
}

type paymentTransition func(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error)

func (h *PaymentHandler) transition(c *gin.Context, apply paymentTransition) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	paymentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := apply(c.Request.Context(), userID, paymentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
