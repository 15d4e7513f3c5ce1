package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"settlement/internal/domain"
	"settlement/internal/repository"
	"settlement/internal/repository/postgres"
)

// WalletLedger owns wallet balance mutations. Every balance change is
// atomic with the creation of its ledger entry: no entry exists without a
// matching mutation and vice versa.
type WalletLedger struct {
	db *sql.DB
}

// NewWalletLedger creates a new WalletLedger.
func NewWalletLedger(db *sql.DB) *WalletLedger {
	return &WalletLedger{db: db}
}

// LedgerParams describes one debit or credit.
type LedgerParams struct {
	OwnerKind     domain.WalletOwnerKind
	OwnerID       string
	Amount        float64
	Remarks       domain.LedgerRemarks
	RequestID     string
	TransactionID string
}

// Debit charges a wallet in its own transaction.
//
// Debit does not check for sufficient balance: a negative balance
// represents fees owed. Do not add a balance floor here without product
// sign-off.
func (l *WalletLedger) Debit(ctx context.Context, params LedgerParams) (*domain.LedgerEntry, error) {
	return l.inTx(ctx, func(tx *sql.Tx) (*domain.LedgerEntry, error) {
		return l.DebitTx(ctx, tx, params)
	})
}

// Credit adds funds to a wallet in its own transaction.
func (l *WalletLedger) Credit(ctx context.Context, params LedgerParams) (*domain.LedgerEntry, error) {
	return l.inTx(ctx, func(tx *sql.Tx) (*domain.LedgerEntry, error) {
		return l.CreditTx(ctx, tx, params)
	})
}

// DebitTx charges a wallet inside the caller's transaction, so the
// orchestrator can fold the debit into a settlement commit.
func (l *WalletLedger) DebitTx(ctx context.Context, tx *sql.Tx, params LedgerParams) (*domain.LedgerEntry, error) {
	return l.apply(ctx, postgres.NewWalletRepositoryWithTx(tx), params, false)
}

// CreditTx adds funds to a wallet inside the caller's transaction.
func (l *WalletLedger) CreditTx(ctx context.Context, tx *sql.Tx, params LedgerParams) (*domain.LedgerEntry, error) {
	return l.apply(ctx, postgres.NewWalletRepositoryWithTx(tx), params, true)
}

func (l *WalletLedger) inTx(ctx context.Context, fn func(tx *sql.Tx) (*domain.LedgerEntry, error)) (*domain.LedgerEntry, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	entry, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return entry, nil
}

// CreditOnce adds funds at most once per external transaction reference.
// The gateway redelivers events with the same intent id; a second call
// observes the existing entry and performs no mutation. The wallet row
// lock serializes concurrent deliveries ahead of the dedupe check.
func (l *WalletLedger) CreditOnce(ctx context.Context, params LedgerParams) (*domain.LedgerEntry, bool, error) {
	if params.TransactionID == "" {
		return nil, false, ErrMissingTransactionID
	}

	var created bool
	entry, err := l.inTx(ctx, func(tx *sql.Tx) (*domain.LedgerEntry, error) {
		wallets := postgres.NewWalletRepositoryWithTx(tx)

		if err := validateParams(params); err != nil {
			return nil, err
		}

		wallet, err := wallets.GetOrCreateForUpdate(ctx, params.OwnerKind, params.OwnerID)
		if err != nil {
			return nil, err
		}

		existing, err := wallets.GetLedgerEntryByTransaction(ctx, params.TransactionID, params.Remarks)
		if err == nil {
			return existing, nil
		}
		if err != repository.ErrNotFound {
			return nil, err
		}

		created = true
		return l.mutate(ctx, wallets, wallet, params, true)
	})
	return entry, created, err
}

func validateParams(params LedgerParams) error {
	if params.Amount <= 0 {
		return ErrInvalidAmount
	}

	switch params.OwnerKind {
	case domain.WalletOwnerRider, domain.WalletOwnerDriver, domain.WalletOwnerFleetOwner:
	default:
		return ErrInvalidOwnerKind
	}

	return nil
}

func (l *WalletLedger) apply(ctx context.Context, wallets repository.WalletRepository, params LedgerParams, isCredit bool) (*domain.LedgerEntry, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	// First touch creates the wallet row; the row lock spans the
	// read-modify-write so concurrent deposits and debits cannot lose
	// updates.
	wallet, err := wallets.GetOrCreateForUpdate(ctx, params.OwnerKind, params.OwnerID)
	if err != nil {
		return nil, err
	}

	return l.mutate(ctx, wallets, wallet, params, isCredit)
}

func (l *WalletLedger) mutate(ctx context.Context, wallets repository.WalletRepository, wallet *domain.Wallet, params LedgerParams, isCredit bool) (*domain.LedgerEntry, error) {
	if isCredit {
		wallet.AmountAdded += params.Amount
		wallet.AmountBalance += params.Amount
	} else {
		wallet.AmountSpent += params.Amount
		wallet.AmountBalance -= params.Amount
	}

	if err := wallets.UpdateBalances(ctx, wallet); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.New().String(),
		WalletID:      wallet.ID,
		Amount:        params.Amount,
		IsCredit:      isCredit,
		Remarks:       params.Remarks,
		TransactionID: params.TransactionID,
		RequestID:     params.RequestID,
		CreatedAt:     time.Now(),
	}

	if err := wallets.CreateLedgerEntry(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}
