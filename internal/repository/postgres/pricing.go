package postgres

import (
	"context"
	"database/sql"
	"errors"

	"settlement/internal/domain"
	"settlement/internal/repository"
)

// PricingRepository is a PostgreSQL implementation of repository.PricingRepository.
type PricingRepository struct {
	q Querier
}

// NewPricingRepository creates a new PostgreSQL pricing repository.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{q: db}
}

// NewPricingRepositoryWithTx creates a pricing repository using a transaction.
func NewPricingRepositoryWithTx(tx *sql.Tx) *PricingRepository {
	return &PricingRepository{q: tx}
}

// GetCancellationFee returns the cancellation fee configured for a zone
// type and timing class.
func (r *PricingRepository) GetCancellationFee(ctx context.Context, zoneTypeID string, timing domain.RideTiming) (float64, error) {
	query := `
		SELECT cancellation_fee FROM zone_type_prices
		WHERE zone_type_id = $1 AND price_type = $2
	`

	var fee float64
	err := r.q.QueryRowContext(ctx, query, zoneTypeID, timing).Scan(&fee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return fee, nil
}
