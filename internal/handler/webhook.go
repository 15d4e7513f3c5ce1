package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"settlement/internal/config"
	"settlement/internal/domain"
	"settlement/internal/gateway"
	"settlement/internal/service"
)

// signatureHeader carries the gateway's webhook signature.
const signatureHeader = "Stripe-Signature"

// WebhookHandler ingests signed gateway events.
type WebhookHandler struct {
	cfg               *config.StripeConfig
	reconciler        service.ReconcilerInterface
	settlementService *service.SettlementService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(cfg *config.StripeConfig, reconciler service.ReconcilerInterface, settlementService *service.SettlementService) *WebhookHandler {
	return &WebhookHandler{
		cfg:               cfg,
		reconciler:        reconciler,
		settlementService: settlementService,
	}
}

// HandleStripeWebhook handles POST /v1/webhooks/stripe.
//
// Responds 400 only on signature/payload verification failure; any
// recognized-or-ignorable event gets a 200, since the gateway retries
// on everything else.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unable to read payload"})
		return
	}

	event, err := gateway.ConstructEvent(payload, c.GetHeader(signatureHeader), h.cfg.WebhookSecret)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) || errors.Is(err, gateway.ErrInvalidPayload) {
			log.Printf("[WEBHOOK] rejected event: %v", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	if err := h.reconciler.HandleEvent(c.Request.Context(), event); err != nil {
		respondError(c, err)
		return
	}

	// Successful payments settle through the orchestrator: a
	// request-scoped intent marks the request paid, a wallet top-up
	// credits the owner's wallet.
	if event.Type == gateway.EventPaymentIntentSucceeded {
		if err := h.settleSucceededIntent(c, event); err != nil {
			respondError(c, err)
			return
		}
	}

	respondJSON(c, http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) settleSucceededIntent(c *gin.Context, event gateway.Event) error {
	obj := event.Data.Object
	userID := obj.UserID()

	if requestID := obj.Metadata["request_id"]; requestID != "" {
		return h.settlementService.ConfirmPayment(c.Request.Context(), requestID, userID)
	}

	if obj.Metadata["payment_for"] == "wallet" && userID != "" {
		kind := domain.WalletOwnerRider
		switch obj.Metadata["role"] {
		case "driver":
			kind = domain.WalletOwnerDriver
		case "owner":
			kind = domain.WalletOwnerFleetOwner
		}
		// Gateway amounts arrive in the smallest currency unit.
		amount := float64(obj.Amount) / 100
		_, err := h.settlementService.TopUpWallet(c.Request.Context(), kind, userID, amount, obj.ID)
		return err
	}

	log.Printf("[WEBHOOK] succeeded event %s has no settlement target", event.ID)
	return nil
}
