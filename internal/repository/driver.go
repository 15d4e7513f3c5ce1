package repository

import (
	"context"

	"settlement/internal/domain"
)

// DriverRepository defines the persistence operations settlement needs
// on drivers.
type DriverRepository interface {
	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// SetAvailable updates the availability flag of a driver.
	SetAvailable(ctx context.Context, id string, available bool) error
}
