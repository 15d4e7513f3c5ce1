package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"settlement/internal/domain"
	"settlement/internal/service"
)

// RequestHandler handles HTTP requests for ride-request settlement.
type RequestHandler struct {
	settlementService *service.SettlementService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(settlementService *service.SettlementService) *RequestHandler {
	return &RequestHandler{settlementService: settlementService}
}

// CancelRequest is the HTTP request body for cancelling a request.
type CancelRequest struct {
	Actor        string `json:"actor" binding:"required"` // rider or driver
	ActorID      string `json:"actor_id" binding:"required"`
	Reason       string `json:"reason,omitempty"`
	CustomReason string `json:"custom_reason,omitempty"`
}

// CancelResponse is the HTTP response for cancelling a request.
type CancelResponse struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	CancelMethod string  `json:"cancel_method"`
	CancelledAt  string  `json:"cancelled_at"`
	FeeApplied   bool    `json:"fee_applied"`
	FeeAmount    float64 `json:"fee_amount,omitempty"`
	FeePaid      bool    `json:"fee_paid,omitempty"`
}

// PaymentMethodRequest is the HTTP request body for switching payment method.
type PaymentMethodRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	PaymentOption string `json:"payment_option" binding:"required"`
}

// ConfirmPaymentRequest is the HTTP request body for confirming payment.
type ConfirmPaymentRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Cancel handles POST /v1/requests/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	requestID := c.Param("id")

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var actorKind domain.CancelMethod
	switch strings.ToLower(req.Actor) {
	case "rider":
		actorKind = domain.CancelMethodRider
	case "driver":
		actorKind = domain.CancelMethodDriver
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "actor must be rider or driver"})
		return
	}

	result, err := h.settlementService.Cancel(c.Request.Context(), service.CancelParams{
		RequestID:    requestID,
		ActorKind:    actorKind,
		ActorID:      req.ActorID,
		ReasonID:     req.Reason,
		CustomReason: req.CustomReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := CancelResponse{
		ID:           result.Request.ID,
		Status:       "CANCELLED",
		CancelMethod: string(result.Request.CancelMethod),
		CancelledAt:  result.Request.CancelledAt.Format("2006-01-02T15:04:05Z07:00"),
		FeeApplied:   result.FeeApplied,
		FeeAmount:    result.FeeAmount,
	}
	if result.FeeRecord != nil {
		response.FeePaid = result.FeeRecord.IsPaid
	}

	respondJSON(c, http.StatusOK, response)
}

// PaymentMethod handles POST /v1/requests/:id/payment-method
func (h *RequestHandler) PaymentMethod(c *gin.Context) {
	requestID := c.Param("id")

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	opt := domain.PaymentOption(strings.ToUpper(req.PaymentOption))
	if err := h.settlementService.SetPaymentMethod(c.Request.Context(), requestID, req.UserID, opt); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true})
}

// ConfirmPayment handles POST /v1/requests/:id/confirm-payment
func (h *RequestHandler) ConfirmPayment(c *gin.Context) {
	requestID := c.Param("id")

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.settlementService.ConfirmPayment(c.Request.Context(), requestID, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true})
}
