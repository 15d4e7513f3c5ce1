package redis

import (
	"context"
	"time"
)

// RealtimeStoreInterface defines the realtime coordination surface.
type RealtimeStoreInterface interface {
	SetPaymentIntent(ctx context.Context, userID, intentID string) error
	GetPaymentIntent(ctx context.Context, userID string) (string, error)
	ClearPaymentIntent(ctx context.Context, userID string) error
	MarkRequestPaid(ctx context.Context, requestID string, paid bool) error
	ClearRequestMeta(ctx context.Context, requestID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSettlementLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error)
	ReleaseSettlementLock(ctx context.Context, requestID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ RealtimeStoreInterface = (*RealtimeStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
