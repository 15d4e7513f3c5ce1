package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook event types settlement reacts to.
const (
	EventPaymentIntentCreated   = "payment_intent.created"
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
)

var (
	// ErrInvalidSignature is returned when the webhook signature header
	// does not verify against the shared secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidPayload is returned when the webhook body cannot be parsed.
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

// Event is a verified gateway webhook event.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData wraps the object the event describes.
type EventData struct {
	Object EventObject `json:"object"`
}

// EventObject carries the intent fields settlement cares about. The
// user id travels in the intent metadata, set at checkout time.
type EventObject struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"` // smallest currency unit
	Metadata map[string]string `json:"metadata"`
}

// UserID returns the user id attached to the event object, or "".
func (o EventObject) UserID() string {
	return o.Metadata["user_id"]
}

// signatureTolerance bounds how old a signed timestamp may be before the
// event is rejected as a replay.
const signatureTolerance = 5 * time.Minute

// ConstructEvent verifies the signature header against the shared secret
// and unmarshals the payload. The header format is "t=<unix>,v1=<hex>"
// where v1 is the HMAC-SHA256 of "<unix>.<payload>".
func ConstructEvent(payload []byte, sigHeader, secret string) (Event, error) {
	return constructEventAt(payload, sigHeader, secret, time.Now())
}

func constructEventAt(payload []byte, sigHeader, secret string, now time.Time) (Event, error) {
	var event Event

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return event, err
	}

	if now.Sub(time.Unix(timestamp, 0)) > signatureTolerance {
		return event, ErrInvalidSignature
	}

	expected := computeSignature(timestamp, payload, secret)
	verified := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			verified = true
			break
		}
	}
	if !verified {
		return event, ErrInvalidSignature
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return event, ErrInvalidPayload
	}

	return event, nil
}

// parseSignatureHeader splits "t=...,v1=...,v1=..." into its parts.
func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, ErrInvalidSignature
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return 0, nil, ErrInvalidSignature
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignature
	}

	return timestamp, signatures, nil
}

// computeSignature returns the hex HMAC-SHA256 of "<timestamp>.<payload>".
func computeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
