package domain

import "time"

// ReasonPaymentType is the fee policy attached to a catalog reason.
type ReasonPaymentType string

const (
	ReasonPaymentFree ReasonPaymentType = "FREE"
	ReasonPaymentPaid ReasonPaymentType = "PAID"
)

// CancellationReason is a read-only catalog entry selectable at cancel time.
type CancellationReason struct {
	ID          string
	Description string
	PaymentType ReasonPaymentType
}

// CancellationFeeRecord records an assessed cancellation fee.
// At most one exists per request. IsPaid=false means the fee was assessed
// but not collected (e.g. a cash rider with no wallet to debit).
type CancellationFeeRecord struct {
	ID              string
	RequestID       string
	RiderID         string // liable rider, mutually exclusive with DriverID
	DriverID        string
	CancellationFee float64
	IsPaid          bool
	PaidRequestID   string
	CreatedAt       time.Time
}

// DriverRejection records a driver backing out of a request.
type DriverRejection struct {
	ID            string
	RequestID     string
	DriverID      string
	IsAfterAccept bool
	Reason        string
	CustomReason  string
	CreatedAt     time.Time
}

// FeeDecision is the assessor's verdict for one cancellation.
type FeeDecision struct {
	Applicable bool
	Amount     float64
}
