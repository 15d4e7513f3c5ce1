package postgres

import (
	"context"
	"database/sql"
	"errors"

	"settlement/internal/domain"
	"settlement/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

const requestColumns = `id, rider_id, driver_id, zone_type_id, payment_opt, is_later, is_paid, is_cancelled, cancel_method, cancelled_at, reason, custom_reason, created_at`

// GetByID retrieves a request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a request by ID holding a row lock.
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.RideRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *RequestRepository) scanOne(row *sql.Row) (*domain.RideRequest, error) {
	var req domain.RideRequest
	var driverID, cancelMethod, reason, customReason sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.RiderID,
		&driverID,
		&req.ZoneTypeID,
		&req.PaymentOption,
		&req.IsLater,
		&req.IsPaid,
		&req.IsCancelled,
		&cancelMethod,
		&cancelledAt,
		&reason,
		&customReason,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if driverID.Valid {
		req.DriverID = driverID.String
	}
	if cancelMethod.Valid {
		req.CancelMethod = domain.CancelMethod(cancelMethod.String)
	}
	if cancelledAt.Valid {
		req.CancelledAt = cancelledAt.Time
	}
	if reason.Valid {
		req.Reason = reason.String
	}
	if customReason.Valid {
		req.CustomReason = customReason.String
	}

	return &req, nil
}

// MarkCancelled records the cancellation fields of a request.
func (r *RequestRepository) MarkCancelled(ctx context.Context, req *domain.RideRequest) error {
	query := `
		UPDATE requests
		SET is_cancelled = true, cancel_method = $1, cancelled_at = $2, reason = $3, custom_reason = $4
		WHERE id = $5
	`

	var reason sql.NullString
	if req.Reason != "" {
		reason = sql.NullString{String: req.Reason, Valid: true}
	}

	var customReason sql.NullString
	if req.CustomReason != "" {
		customReason = sql.NullString{String: req.CustomReason, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		req.CancelMethod,
		req.CancelledAt,
		reason,
		customReason,
		req.ID,
	)
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

// SetPaymentOption updates the payment option for a request.
func (r *RequestRepository) SetPaymentOption(ctx context.Context, id string, opt domain.PaymentOption) error {
	query := `UPDATE requests SET payment_opt = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, opt, id)
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

// SetPaid updates the is_paid flag for a request.
func (r *RequestRepository) SetPaid(ctx context.Context, id string, paid bool) error {
	query := `UPDATE requests SET is_paid = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, paid, id)
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
