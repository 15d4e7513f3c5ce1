package domain

import "time"

// CancelMethod records which side of the trip cancelled the request.
type CancelMethod string

const (
	CancelMethodRider  CancelMethod = "RIDER"
	CancelMethodDriver CancelMethod = "DRIVER"
)

// PaymentOption represents how the rider pays for a request.
type PaymentOption string

const (
	PaymentOptionCash   PaymentOption = "CASH"
	PaymentOptionCard   PaymentOption = "CARD"
	PaymentOptionWallet PaymentOption = "WALLET"
)

// RideTiming classifies a request as immediate or scheduled.
// Pricing tiers carry a separate cancellation fee for each class.
type RideTiming string

const (
	RideTimingNow   RideTiming = "RIDE_NOW"
	RideTimingLater RideTiming = "RIDE_LATER"
)

// RideRequest is a ride request owned by the matching subsystem.
// Settlement only mutates the cancellation and payment fields.
type RideRequest struct {
	ID            string
	RiderID       string
	DriverID      string // empty until a driver accepts
	ZoneTypeID    string // pricing tier reference
	PaymentOption PaymentOption
	IsLater       bool
	IsPaid        bool
	IsCancelled   bool
	CancelMethod  CancelMethod
	CancelledAt   time.Time
	Reason        string // catalog reason id, if any
	CustomReason  string
	CreatedAt     time.Time
}

// Timing returns the pricing timing class for the request.
func (r *RideRequest) Timing() RideTiming {
	if r.IsLater {
		return RideTimingLater
	}
	return RideTimingNow
}
