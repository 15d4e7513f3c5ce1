package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"settlement/internal/config"
)

// PaymentGateway is the interface for the external card-payment gateway.
type PaymentGateway interface {
	// CancelIntent cancels an uncaptured payment intent. The gateway
	// rejects intents that are already captured or already cancelled.
	CancelIntent(ctx context.Context, intentID string) error
}

// StripeGateway calls the Stripe API over HTTP.
type StripeGateway struct {
	cfg    *config.StripeConfig
	client *http.Client
}

// NewStripeGateway creates a new StripeGateway.
func NewStripeGateway(cfg *config.StripeConfig) *StripeGateway {
	return &StripeGateway{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Ensure StripeGateway implements PaymentGateway.
var _ PaymentGateway = (*StripeGateway)(nil)

// stripeError is the error envelope Stripe returns on non-2xx responses.
type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CancelIntent cancels a payment intent via POST /v1/payment_intents/{id}/cancel.
func (g *StripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s/cancel", g.cfg.APIBaseURL, url.PathEscape(intentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(""))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var stripeErr stripeError
	if err := json.Unmarshal(body, &stripeErr); err == nil && stripeErr.Error.Message != "" {
		return fmt.Errorf("stripe cancel intent %s: %s (%s)", intentID, stripeErr.Error.Message, stripeErr.Error.Code)
	}

	return fmt.Errorf("stripe cancel intent %s: unexpected status %d", intentID, resp.StatusCode)
}
