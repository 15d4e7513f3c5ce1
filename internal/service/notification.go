package service

import (
	"context"
	"log"
	"time"
)

// Socket event names consumed by the mobile/socket clients.
const (
	SocketEventTripCancelled = "trip_canceled"
)

// Notification represents a push notification to be sent.
type Notification struct {
	RecipientID string
	Title       string
	Body        string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotifierInterface defines the outbound notification surface.
// Both calls are fire-and-forget: delivery failures are logged, never
// propagated into settlement.
type NotifierInterface interface {
	Send(ctx context.Context, userID, title, body string) error
	Broadcast(ctx context.Context, event string, payload map[string]interface{}, targetID string) error
}

// Notifier delivers push notifications and socket broadcasts.
type Notifier struct {
	// In a real deployment this would hold:
	// - Push notification client (FCM, APNS)
	// - Socket/MQTT publisher for realtime fan-out
}

// NewNotifier creates a new Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Ensure Notifier implements NotifierInterface.
var _ NotifierInterface = (*Notifier)(nil)

// Send delivers a push notification (mock transport).
func (n *Notifier) Send(ctx context.Context, userID, title, body string) error {
	log.Printf("[NOTIFICATION] Recipient=%s, Title=%s, Body=%s", userID, title, body)
	return nil
}

// Broadcast emits a socket event to one target (mock transport).
func (n *Notifier) Broadcast(ctx context.Context, event string, payload map[string]interface{}, targetID string) error {
	log.Printf("[SOCKET] Event=%s, Target=%s", event, targetID)
	return nil
}
