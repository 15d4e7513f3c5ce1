package repository

import (
	"context"

	"settlement/internal/domain"
)

// CancellationRepository defines persistence for cancellation reference
// data, fee records, and driver rejections.
type CancellationRepository interface {
	// GetReason retrieves a catalog cancellation reason by ID.
	GetReason(ctx context.Context, id string) (*domain.CancellationReason, error)

	// CreateFeeRecord persists a cancellation fee record.
	CreateFeeRecord(ctx context.Context, rec *domain.CancellationFeeRecord) error

	// GetFeeRecordByRequestID retrieves the fee record for a request.
	GetFeeRecordByRequestID(ctx context.Context, requestID string) (*domain.CancellationFeeRecord, error)

	// CreateDriverRejection persists a driver rejection record.
	CreateDriverRejection(ctx context.Context, rej *domain.DriverRejection) error
}
