package service

import "errors"

var (
	// ErrNotAuthorized is returned when the request does not exist or
	// does not belong to the cancelling actor.
	ErrNotAuthorized = errors.New("request does not belong to actor")

	// ErrAlreadyCancelled is returned when the request was already settled.
	ErrAlreadyCancelled = errors.New("request already cancelled")

	// ErrSettlementInProgress is returned when another settlement for the
	// same request holds the lock.
	ErrSettlementInProgress = errors.New("settlement already in progress for request")

	// ErrNoPricingTier is returned when no pricing tier matches the
	// request's zone and timing class. This is a configuration error;
	// the cancellation aborts before any wallet mutation.
	ErrNoPricingTier = errors.New("no pricing tier for zone and timing")

	// ErrInvalidRequestID is returned when the request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidActor is returned when the actor ID is empty or the
	// actor kind is unknown.
	ErrInvalidActor = errors.New("invalid cancelling actor")

	// ErrInvalidAmount is returned when a ledger amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidOwnerKind is returned when a wallet owner kind is unknown.
	ErrInvalidOwnerKind = errors.New("invalid wallet owner kind")

	// ErrMissingTransactionID is returned when a deduplicated credit is
	// requested without an external transaction reference.
	ErrMissingTransactionID = errors.New("transaction reference is required")

	// ErrInvalidPaymentOption is returned when a payment option is unknown.
	ErrInvalidPaymentOption = errors.New("invalid payment option")
)
