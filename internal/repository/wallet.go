package repository

import (
	"context"

	"settlement/internal/domain"
)

// WalletRepository defines the persistence operations for wallets and
// their append-only ledger entries.
type WalletRepository interface {
	// GetOrCreateForUpdate resolves the wallet for (kind, ownerID),
	// creating a zero-balance row on first touch, and returns it with a
	// row lock held. Must be called inside a transaction.
	GetOrCreateForUpdate(ctx context.Context, kind domain.WalletOwnerKind, ownerID string) (*domain.Wallet, error)

	// UpdateBalances persists the balance columns of a wallet.
	UpdateBalances(ctx context.Context, wallet *domain.Wallet) error

	// CreateLedgerEntry appends a ledger entry. Entries are never
	// updated or deleted.
	CreateLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error

	// GetLedgerEntryByTransaction returns the entry recorded for an
	// external transaction reference and remarks, or ErrNotFound.
	GetLedgerEntryByTransaction(ctx context.Context, transactionID string, remarks domain.LedgerRemarks) (*domain.LedgerEntry, error)

	// ListLedgerEntries returns all entries for a wallet, oldest first.
	ListLedgerEntries(ctx context.Context, walletID string) ([]*domain.LedgerEntry, error)
}
