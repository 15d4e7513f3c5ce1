package gateway

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signedHeader(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(ts, payload, secret))
}

func TestConstructEvent_ValidSignature(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.created",
		"data": {"object": {"id": "pi_123", "amount": 2500, "metadata": {"user_id": "user-1"}}}
	}`)

	now := time.Now()
	event, err := constructEventAt(payload, signedHeader(payload, testSecret, now), testSecret, now)
	require.NoError(t, err)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventPaymentIntentCreated, event.Type)
	assert.Equal(t, "pi_123", event.Data.Object.ID)
	assert.Equal(t, int64(2500), event.Data.Object.Amount)
	assert.Equal(t, "user-1", event.Data.Object.UserID())
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "payment_intent.created"}`)

	now := time.Now()
	_, err := constructEventAt(payload, signedHeader(payload, "whsec_other", now), testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEvent_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "payment_intent.created"}`)
	header := signedHeader(payload, testSecret, time.Now())

	tampered := []byte(`{"id": "evt_1", "type": "payment_intent.succeeded"}`)
	_, err := constructEventAt(tampered, header, testSecret, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEvent_StaleTimestampIsRejected(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "payment_intent.created"}`)

	now := time.Now()
	signedAt := now.Add(-6 * time.Minute)
	_, err := constructEventAt(payload, signedHeader(payload, testSecret, signedAt), testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEvent_MalformedHeader(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)

	headers := []string{
		"",
		"t=notanumber,v1=abc",
		"v1=abc",
		"t=12345",
		"garbage",
	}
	for _, header := range headers {
		_, err := ConstructEvent(payload, header, testSecret)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestConstructEvent_SecondSignatureVerifies(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "type": "payment_intent.created"}`)

	now := time.Now()
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", ts, computeSignature(ts, payload, testSecret))

	_, err := constructEventAt(payload, header, testSecret, now)
	assert.NoError(t, err)
}

func TestConstructEvent_InvalidJSONPayload(t *testing.T) {
	payload := []byte(`{not json`)

	now := time.Now()
	_, err := constructEventAt(payload, signedHeader(payload, testSecret, now), testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
