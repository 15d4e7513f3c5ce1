package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlement/internal/config"
)

func newTestGateway(baseURL string) *StripeGateway {
	return NewStripeGateway(&config.StripeConfig{
		SecretKey:  "sk_test_123",
		APIBaseURL: baseURL,
		Timeout:    5 * time.Second,
	})
}

func TestStripeGateway_CancelIntent(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id": "pi_123", "status": "canceled"}`))
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	err := gw.CancelIntent(context.Background(), "pi_123")
	require.NoError(t, err)

	assert.Equal(t, "/v1/payment_intents/pi_123/cancel", gotPath)
	assert.Equal(t, "Bearer sk_test_123", gotAuth)
}

func TestStripeGateway_CancelIntentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "code": "payment_intent_unexpected_state", "message": "This PaymentIntent could not be canceled."}}`))
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	err := gw.CancelIntent(context.Background(), "pi_123")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "payment_intent_unexpected_state")
}

func TestStripeGateway_CancelIntentUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	err := gw.CancelIntent(context.Background(), "pi_123")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "unexpected status 502")
}
