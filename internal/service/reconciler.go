package service

import (
	"context"
	"log"

	"settlement/internal/gateway"
	"settlement/internal/redis"
)

// ReconcilerInterface defines the payment-intent reconciliation contract.
type ReconcilerInterface interface {
	HandleEvent(ctx context.Context, event gateway.Event) error
	CancelIntent(ctx context.Context, userID string) error
}

// PaymentIntentReconciler tracks the gateway's per-request payment intent.
// State per request/intent pair: none -> created -> (canceled | captured).
// Created comes in via webhook; canceled is driven by trip cancellation.
type PaymentIntentReconciler struct {
	realtime redis.RealtimeStoreInterface
	gateway  gateway.PaymentGateway
}

// NewPaymentIntentReconciler creates a new PaymentIntentReconciler.
func NewPaymentIntentReconciler(realtime redis.RealtimeStoreInterface, gw gateway.PaymentGateway) *PaymentIntentReconciler {
	return &PaymentIntentReconciler{
		realtime: realtime,
		gateway:  gw,
	}
}

// Ensure PaymentIntentReconciler implements ReconcilerInterface.
var _ ReconcilerInterface = (*PaymentIntentReconciler)(nil)

// HandleEvent applies one verified webhook event to local state.
//
// Redelivery of the same event is a last-write-wins overwrite of an
// identical value, so ingestion is idempotent without a dedupe table.
// Unrecognized event types produce no transition; the endpoint still
// returns 2xx because the gateway retries on anything else.
func (r *PaymentIntentReconciler) HandleEvent(ctx context.Context, event gateway.Event) error {
	switch event.Type {
	case gateway.EventPaymentIntentCreated:
		userID := event.Data.Object.UserID()
		if userID == "" {
			log.Printf("[RECONCILER] created event %s has no user metadata, skipping", event.ID)
			return nil
		}
		return r.realtime.SetPaymentIntent(ctx, userID, event.Data.Object.ID)

	case gateway.EventPaymentIntentSucceeded:
		// Settlement of the payment itself is the orchestrator's job;
		// here the intent association is retired so a later
		// cancellation has nothing to cancel.
		userID := event.Data.Object.UserID()
		if userID == "" {
			return nil
		}
		if err := r.realtime.ClearPaymentIntent(ctx, userID); err != nil {
			log.Printf("[RECONCILER] failed to clear intent for user %s: %v", userID, err)
		}
		return nil

	default:
		log.Printf("[RECONCILER] unhandled event type: %s", event.Type)
		return nil
	}
}

// CancelIntent cancels any outstanding intent for the paying user.
//
// No association means nothing to cancel. Gateway rejections (already
// captured, already canceled) are logged and swallowed: cancelling the
// trip must not fail because the external cancel failed.
func (r *PaymentIntentReconciler) CancelIntent(ctx context.Context, userID string) error {
	intentID, err := r.realtime.GetPaymentIntent(ctx, userID)
	if err != nil {
		return err
	}

	if intentID == "" {
		return nil
	}

	if err := r.gateway.CancelIntent(ctx, intentID); err != nil {
		log.Printf("[RECONCILER] gateway cancel failed for intent %s: %v", intentID, err)
		return nil
	}

	if err := r.realtime.ClearPaymentIntent(ctx, userID); err != nil {
		log.Printf("[RECONCILER] failed to clear intent for user %s: %v", userID, err)
	}

	return nil
}
