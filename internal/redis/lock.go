package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSettlementLock attempts to acquire the settlement lock for the
// given request. Returns true if the lock was acquired, false if another
// settlement for the same request is in flight.
func (s *LockStore) AcquireSettlementLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:settlement:%s", requestID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSettlementLock releases the settlement lock for the given request.
func (s *LockStore) ReleaseSettlementLock(ctx context.Context, requestID string) error {
	key := fmt.Sprintf("lock:settlement:%s", requestID)

	return s.client.Del(ctx, key).Err()
}
