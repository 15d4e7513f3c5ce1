package domain

import "time"

// WalletOwnerKind tags which kind of account owns a wallet.
// The original schema kept three parallel wallet tables; here a single
// wallet row is keyed by (owner kind, owner id).
type WalletOwnerKind string

const (
	WalletOwnerRider      WalletOwnerKind = "RIDER"
	WalletOwnerDriver     WalletOwnerKind = "DRIVER"
	WalletOwnerFleetOwner WalletOwnerKind = "FLEET_OWNER"
)

// Wallet holds the running balance for one owner.
// AmountBalance is never mutated except through a paired LedgerEntry.
type Wallet struct {
	ID            string
	OwnerKind     WalletOwnerKind
	OwnerID       string
	AmountBalance float64
	AmountSpent   float64
	AmountAdded   float64
}

// LedgerRemarks is the enumerated reason attached to a ledger entry.
type LedgerRemarks string

const (
	RemarksCancellationFee LedgerRemarks = "CANCELLATION_FEE"
	RemarksWalletDeposit   LedgerRemarks = "MONEY_DEPOSITED_TO_WALLET"
	RemarksRideFare        LedgerRemarks = "RIDE_FARE"
)

// ReplayBalance folds a wallet's ledger entries over an initial balance.
// Because entries are append-only and every balance change is paired
// with exactly one entry, replaying them must reproduce AmountBalance.
func ReplayBalance(initial float64, entries []*LedgerEntry) float64 {
	balance := initial
	for _, e := range entries {
		if e.IsCredit {
			balance += e.Amount
		} else {
			balance -= e.Amount
		}
	}
	return balance
}

// LedgerEntry is the append-only record of a single balance change.
// Entries are never updated or deleted after creation.
type LedgerEntry struct {
	ID            string
	WalletID      string
	Amount        float64 // positive magnitude
	IsCredit      bool
	Remarks       LedgerRemarks
	TransactionID string // external reference (request id, payment intent id)
	RequestID     string
	CreatedAt     time.Time
}
