package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"settlement/internal/domain"
	"settlement/internal/service"
)

// WalletHandler handles HTTP requests for wallet top-ups.
type WalletHandler struct {
	settlementService *service.SettlementService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(settlementService *service.SettlementService) *WalletHandler {
	return &WalletHandler{settlementService: settlementService}
}

// TopUpRequest is the HTTP request body for crediting a wallet after a
// confirmed gateway charge.
type TopUpRequest struct {
	OwnerKind string  `json:"owner_kind" binding:"required"` // rider, driver or fleet_owner
	OwnerID   string  `json:"owner_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	IntentID  string  `json:"intent_id,omitempty"`
}

// TopUpResponse is the HTTP response for a wallet top-up.
type TopUpResponse struct {
	LedgerEntryID string  `json:"ledger_entry_id"`
	WalletID      string  `json:"wallet_id"`
	Amount        float64 `json:"amount"`
	IsCredit      bool    `json:"is_credit"`
	Remarks       string  `json:"remarks"`
}

// TopUp handles POST /v1/wallets/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	kind, err := parseOwnerKind(req.OwnerKind)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	entry, err := h.settlementService.TopUpWallet(c.Request.Context(), kind, req.OwnerID, req.Amount, req.IntentID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, TopUpResponse{
		LedgerEntryID: entry.ID,
		WalletID:      entry.WalletID,
		Amount:        entry.Amount,
		IsCredit:      entry.IsCredit,
		Remarks:       string(entry.Remarks),
	})
}

// parseOwnerKind validates a wallet owner kind string.
func parseOwnerKind(kind string) (domain.WalletOwnerKind, error) {
	switch strings.ToUpper(kind) {
	case string(domain.WalletOwnerRider):
		return domain.WalletOwnerRider, nil
	case string(domain.WalletOwnerDriver):
		return domain.WalletOwnerDriver, nil
	case string(domain.WalletOwnerFleetOwner):
		return domain.WalletOwnerFleetOwner, nil
	default:
		return "", service.ErrInvalidOwnerKind
	}
}
