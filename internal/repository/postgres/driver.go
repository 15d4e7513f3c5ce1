package postgres

import (
	"context"
	"database/sql"
	"errors"

	"settlement/internal/domain"
	"settlement/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT id, user_id, name, fleet_owner_id, available FROM drivers WHERE id = $1`

	var driver domain.Driver
	var fleetOwnerID sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.UserID,
		&driver.Name,
		&fleetOwnerID,
		&driver.Available,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if fleetOwnerID.Valid {
		driver.FleetOwnerID = fleetOwnerID.String
	}

	return &driver, nil
}

// SetAvailable updates the availability flag of a driver.
func (r *DriverRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	query := `UPDATE drivers SET available = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, available, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
