package repository

import (
	"context"

	"settlement/internal/domain"
)

// RequestRepository defines the persistence operations settlement needs
// on ride requests. The matching subsystem owns the rest of the row.
type RequestRepository interface {
	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (*domain.RideRequest, error)

	// GetByIDForUpdate retrieves a request by ID holding a row lock.
	// Must be called inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.RideRequest, error)

	// MarkCancelled records the cancellation fields of a request.
	MarkCancelled(ctx context.Context, req *domain.RideRequest) error

	// SetPaymentOption updates the payment option for a request.
	SetPaymentOption(ctx context.Context, id string, opt domain.PaymentOption) error

	// SetPaid updates the is_paid flag for a request.
	SetPaid(ctx context.Context, id string, paid bool) error
}
