package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlement/internal/domain"
	"settlement/internal/repository"
)

func TestRequestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Now()
	cancelledAt := createdAt.Add(time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM requests WHERE id = $1`)).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "rider_id", "driver_id", "zone_type_id", "payment_opt", "is_later",
			"is_paid", "is_cancelled", "cancel_method", "cancelled_at", "reason", "custom_reason", "created_at",
		}).AddRow("req-1", "user-1", "driver-1", "zone-1", "WALLET", true, false, true, "RIDER", cancelledAt, nil, "running late", createdAt))

	repo := NewRequestRepository(db)
	req, err := repo.GetByID(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, "driver-1", req.DriverID)
	assert.Equal(t, domain.CancelMethodRider, req.CancelMethod)
	assert.Equal(t, domain.PaymentOptionWallet, req.PaymentOption)
	assert.Equal(t, domain.RideTimingLater, req.Timing())
	assert.Equal(t, "", req.Reason)
	assert.Equal(t, "running late", req.CustomReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_NullColumnsStayEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM requests WHERE id = $1`)).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "rider_id", "driver_id", "zone_type_id", "payment_opt", "is_later",
			"is_paid", "is_cancelled", "cancel_method", "cancelled_at", "reason", "custom_reason", "created_at",
		}).AddRow("req-1", "user-1", nil, "zone-1", "CASH", false, false, false, nil, nil, nil, nil, time.Now()))

	repo := NewRequestRepository(db)
	req, err := repo.GetByID(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Empty(t, req.DriverID)
	assert.Empty(t, string(req.CancelMethod))
	assert.True(t, req.CancelledAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM requests WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewRequestRepository(db)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_SetPaidUnknownRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE requests SET is_paid`)).
		WithArgs(true, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRequestRepository(db)
	err = repo.SetPaid(context.Background(), "missing", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
