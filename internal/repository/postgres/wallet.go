package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"settlement/internal/domain"
	"settlement/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetOrCreateForUpdate resolves the wallet for (kind, ownerID), creating a
// zero-balance row on first touch, and locks it for the transaction.
func (r *WalletRepository) GetOrCreateForUpdate(ctx context.Context, kind domain.WalletOwnerKind, ownerID string) (*domain.Wallet, error) {
	insert := `
		INSERT INTO wallets (id, owner_kind, owner_id, amount_balance, amount_spent, amount_added)
		VALUES ($1, $2, $3, 0, 0, 0)
		ON CONFLICT (owner_kind, owner_id) DO NOTHING
	`
	if _, err := r.q.ExecContext(ctx, insert, uuid.New().String(), kind, ownerID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, owner_kind, owner_id, amount_balance, amount_spent, amount_added
		FROM wallets WHERE owner_kind = $1 AND owner_id = $2 FOR UPDATE
	`

	var wallet domain.Wallet
	err := r.q.QueryRowContext(ctx, query, kind, ownerID).Scan(
		&wallet.ID,
		&wallet.OwnerKind,
		&wallet.OwnerID,
		&wallet.AmountBalance,
		&wallet.AmountSpent,
		&wallet.AmountAdded,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

// UpdateBalances persists the balance columns of a wallet.
func (r *WalletRepository) UpdateBalances(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET amount_balance = $1, amount_spent = $2, amount_added = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		wallet.AmountBalance,
		wallet.AmountSpent,
		wallet.AmountAdded,
		wallet.ID,
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

// CreateLedgerEntry appends a ledger entry.
func (r *WalletRepository) CreateLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO wallet_ledger_entries (id, wallet_id, amount, is_credit, remarks, transaction_id, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var transactionID sql.NullString
	if entry.TransactionID != "" {
		transactionID = sql.NullString{String: entry.TransactionID, Valid: true}
	}

	var requestID sql.NullString
	if entry.RequestID != "" {
		requestID = sql.NullString{String: entry.RequestID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.WalletID,
		entry.Amount,
		entry.IsCredit,
		entry.Remarks,
		transactionID,
		requestID,
		entry.CreatedAt,
	)

	return err
}

// GetLedgerEntryByTransaction returns the entry recorded for an external
// transaction reference and remarks.
func (r *WalletRepository) GetLedgerEntryByTransaction(ctx context.Context, transactionID string, remarks domain.LedgerRemarks) (*domain.LedgerEntry, error) {
	query := `
		SELECT id, wallet_id, amount, is_credit, remarks, transaction_id, request_id, created_at
		FROM wallet_ledger_entries WHERE transaction_id = $1 AND remarks = $2
	`

	var entry domain.LedgerEntry
	var txID, requestID sql.NullString
	err := r.q.QueryRowContext(ctx, query, transactionID, remarks).Scan(
		&entry.ID,
		&entry.WalletID,
		&entry.Amount,
		&entry.IsCredit,
		&entry.Remarks,
		&txID,
		&requestID,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if txID.Valid {
		entry.TransactionID = txID.String
	}
	if requestID.Valid {
		entry.RequestID = requestID.String
	}

	return &entry, nil
}

// ListLedgerEntries returns all entries for a wallet, oldest first.
func (r *WalletRepository) ListLedgerEntries(ctx context.Context, walletID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, wallet_id, amount, is_credit, remarks, transaction_id, request_id, created_at
		FROM wallet_ledger_entries WHERE wallet_id = $1 ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		var transactionID, requestID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.WalletID,
			&entry.Amount,
			&entry.IsCredit,
			&entry.Remarks,
			&transactionID,
			&requestID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if transactionID.Valid {
			entry.TransactionID = transactionID.String
		}
		if requestID.Valid {
			entry.RequestID = requestID.String
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
