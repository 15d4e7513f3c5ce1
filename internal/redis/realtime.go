package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RealtimeStore mirrors live trip state for socket/mobile clients.
// It is a plain key-value surface; durability lives in PostgreSQL.
type RealtimeStore struct {
	client *redis.Client
}

// NewRealtimeStore creates a new RealtimeStore.
func NewRealtimeStore(client *redis.Client) *RealtimeStore {
	return &RealtimeStore{client: client}
}

// Key paths. These mirror the paths the mobile clients subscribe to.
func paymentIntentKey(userID string) string {
	return fmt.Sprintf("requests/user_id/%s/payment_intent_id", userID)
}

func requestPaidKey(requestID string) string {
	return fmt.Sprintf("requests/%s/is_paid", requestID)
}

func requestMetaKey(requestID string) string {
	return fmt.Sprintf("request-meta/%s", requestID)
}

// SetPaymentIntent stores the gateway intent id for a paying user.
// Last write wins; webhook redelivery carries an identical payload.
func (s *RealtimeStore) SetPaymentIntent(ctx context.Context, userID, intentID string) error {
	return s.client.Set(ctx, paymentIntentKey(userID), intentID, 0).Err()
}

// GetPaymentIntent returns the stored intent id for a user, or "" when
// none is stored.
func (s *RealtimeStore) GetPaymentIntent(ctx context.Context, userID string) (string, error) {
	val, err := s.client.Get(ctx, paymentIntentKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// ClearPaymentIntent removes the stored intent id for a user.
func (s *RealtimeStore) ClearPaymentIntent(ctx context.Context, userID string) error {
	return s.client.Del(ctx, paymentIntentKey(userID)).Err()
}

// MarkRequestPaid mirrors the is_paid flag of a request for live clients.
func (s *RealtimeStore) MarkRequestPaid(ctx context.Context, requestID string, paid bool) error {
	val := "0"
	if paid {
		val = "1"
	}
	return s.client.Set(ctx, requestPaidKey(requestID), val, 0).Err()
}

// ClearRequestMeta removes the presence entry for a request. Other
// components treat the request as fully released once this is gone.
func (s *RealtimeStore) ClearRequestMeta(ctx context.Context, requestID string) error {
	return s.client.Del(ctx, requestMetaKey(requestID)).Err()
}
