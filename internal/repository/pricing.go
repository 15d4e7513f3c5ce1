package repository

import (
	"context"

	"settlement/internal/domain"
)

// PricingRepository reads zone pricing tiers.
type PricingRepository interface {
	// GetCancellationFee returns the cancellation fee configured for a
	// zone type and timing class. Returns ErrNotFound when no tier
	// matches.
	GetCancellationFee(ctx context.Context, zoneTypeID string, timing domain.RideTiming) (float64, error)
}
