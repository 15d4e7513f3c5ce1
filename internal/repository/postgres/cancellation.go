package postgres

import (
	"context"
	"database/sql"
	"errors"

	"settlement/internal/domain"
	"settlement/internal/repository"
)

// CancellationRepository is a PostgreSQL implementation of repository.CancellationRepository.
type CancellationRepository struct {
	q Querier
}

// NewCancellationRepository creates a new PostgreSQL cancellation repository.
func NewCancellationRepository(db *sql.DB) *CancellationRepository {
	return &CancellationRepository{q: db}
}

// NewCancellationRepositoryWithTx creates a cancellation repository using a transaction.
func NewCancellationRepositoryWithTx(tx *sql.Tx) *CancellationRepository {
	return &CancellationRepository{q: tx}
}

// GetReason retrieves a catalog cancellation reason by ID.
func (r *CancellationRepository) GetReason(ctx context.Context, id string) (*domain.CancellationReason, error) {
	query := `SELECT id, description, payment_type FROM cancellation_reasons WHERE id = $1`

	var reason domain.CancellationReason
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&reason.ID,
		&reason.Description,
		&reason.PaymentType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &reason, nil
}

// CreateFeeRecord persists a cancellation fee record.
func (r *CancellationRepository) CreateFeeRecord(ctx context.Context, rec *domain.CancellationFeeRecord) error {
	query := `
		INSERT INTO request_cancellation_fees (id, request_id, rider_id, driver_id, cancellation_fee, is_paid, paid_request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var riderID sql.NullString
	if rec.RiderID != "" {
		riderID = sql.NullString{String: rec.RiderID, Valid: true}
	}

	var driverID sql.NullString
	if rec.DriverID != "" {
		driverID = sql.NullString{String: rec.DriverID, Valid: true}
	}

	var paidRequestID sql.NullString
	if rec.PaidRequestID != "" {
		paidRequestID = sql.NullString{String: rec.PaidRequestID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		rec.ID,
		rec.RequestID,
		riderID,
		driverID,
		rec.CancellationFee,
		rec.IsPaid,
		paidRequestID,
		rec.CreatedAt,
	)

	return err
}

// GetFeeRecordByRequestID retrieves the fee record for a request.
func (r *CancellationRepository) GetFeeRecordByRequestID(ctx context.Context, requestID string) (*domain.CancellationFeeRecord, error) {
	query := `
		SELECT id, request_id, rider_id, driver_id, cancellation_fee, is_paid, paid_request_id, created_at
		FROM request_cancellation_fees WHERE request_id = $1
	`

	var rec domain.CancellationFeeRecord
	var riderID, driverID, paidRequestID sql.NullString
	err := r.q.QueryRowContext(ctx, query, requestID).Scan(
		&rec.ID,
		&rec.RequestID,
		&riderID,
		&driverID,
		&rec.CancellationFee,
		&rec.IsPaid,
		&paidRequestID,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if riderID.Valid {
		rec.RiderID = riderID.String
	}
	if driverID.Valid {
		rec.DriverID = driverID.String
	}
	if paidRequestID.Valid {
		rec.PaidRequestID = paidRequestID.String
	}

	return &rec, nil
}

// CreateDriverRejection persists a driver rejection record.
func (r *CancellationRepository) CreateDriverRejection(ctx context.Context, rej *domain.DriverRejection) error {
	query := `
		INSERT INTO driver_rejected_requests (id, request_id, driver_id, is_after_accept, reason, custom_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var reason sql.NullString
	if rej.Reason != "" {
		reason = sql.NullString{String: rej.Reason, Valid: true}
	}

	var customReason sql.NullString
	if rej.CustomReason != "" {
		customReason = sql.NullString{String: rej.CustomReason, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		rej.ID,
		rej.RequestID,
		rej.DriverID,
		rej.IsAfterAccept,
		reason,
		customReason,
		rej.CreatedAt,
	)

	return err
}
