package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"settlement/internal/domain"
	"settlement/internal/redis"
	"settlement/internal/repository"
	"settlement/internal/repository/postgres"
)

// settlementLockTTL bounds how long a crashed settlement can hold the
// per-request lock.
const settlementLockTTL = 30 * time.Second

// SettlementService orchestrates cancellation settlement: it sequences
// fee assessment, ledger mutation, external intent cancellation, and the
// downstream notification/reassignment side effects.
//
// Local state (request row, wallet, fee record) commits in one database
// transaction. Everything after the commit is a best-effort saga step:
// independently attempted, logged on failure, never rolled back.
type SettlementService struct {
	db         *sql.DB
	assessor   *FeeAssessor
	ledger     *WalletLedger
	driverRepo repository.DriverRepository
	reconciler ReconcilerInterface
	realtime   redis.RealtimeStoreInterface
	locks      redis.LockStoreInterface
	notifier   NotifierInterface
	reassigner Reassigner
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	db *sql.DB,
	assessor *FeeAssessor,
	ledger *WalletLedger,
	driverRepo repository.DriverRepository,
	reconciler ReconcilerInterface,
	realtime redis.RealtimeStoreInterface,
	locks redis.LockStoreInterface,
	notifier NotifierInterface,
	reassigner Reassigner,
) *SettlementService {
	return &SettlementService{
		db:         db,
		assessor:   assessor,
		ledger:     ledger,
		driverRepo: driverRepo,
		reconciler: reconciler,
		realtime:   realtime,
		locks:      locks,
		notifier:   notifier,
		reassigner: reassigner,
	}
}

// CancelParams contains the parameters for cancelling a request.
type CancelParams struct {
	RequestID    string
	ActorKind    domain.CancelMethod
	ActorID      string // rider user id or driver id, per ActorKind
	ReasonID     string
	CustomReason string
}

// SettlementResult contains the outcome of a cancellation settlement.
type SettlementResult struct {
	Request    *domain.RideRequest
	FeeApplied bool
	FeeAmount  float64
	FeeRecord  *domain.CancellationFeeRecord
}

// Cancel settles a trip cancellation. Exactly one settlement outcome is
// produced per request: the per-request lock plus the row lock on the
// request guarantee exclusivity, and a second call observes the
// cancelled row and fails with ErrAlreadyCancelled.
func (s *SettlementService) Cancel(ctx context.Context, params CancelParams) (*SettlementResult, error) {
	if params.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if params.ActorID == "" {
		return nil, ErrInvalidActor
	}
	if params.ActorKind != domain.CancelMethodRider && params.ActorKind != domain.CancelMethodDriver {
		return nil, ErrInvalidActor
	}

	acquired, err := s.locks.AcquireSettlementLock(ctx, params.RequestID, settlementLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSettlementInProgress
	}
	defer func() {
		// The caller may have disconnected by now; releasing on the
		// request context would strand the lock for the full TTL.
		releaseCtx := context.WithoutCancel(ctx)
		if err := s.locks.ReleaseSettlementLock(releaseCtx, params.RequestID); err != nil {
			log.Printf("[SETTLEMENT] failed to release lock for request %s: %v", params.RequestID, err)
		}
	}()

	result, driver, err := s.settle(ctx, params)
	if err != nil {
		return nil, err
	}

	req := result.Request

	// Post-commit saga steps. Each is isolated: a failure here never
	// unwinds the committed settlement.

	if req.PaymentOption == domain.PaymentOptionCard {
		if err := s.reconciler.CancelIntent(ctx, req.RiderID); err != nil {
			log.Printf("[SETTLEMENT] intent cancel failed for request %s: %v", req.ID, err)
		}
	}

	// Releasing the presence entry is what lets the rest of the system
	// treat the request as settled, so unlike the steps around it a
	// failure here is reported to the caller.
	if err := s.realtime.ClearRequestMeta(ctx, req.ID); err != nil {
		return result, err
	}

	// Rider cancellations free the assigned driver for new requests.
	if params.ActorKind == domain.CancelMethodRider && driver != nil {
		if err := s.driverRepo.SetAvailable(ctx, driver.ID, true); err != nil {
			log.Printf("[SETTLEMENT] failed to free driver %s: %v", driver.ID, err)
		}
	}

	s.notifyCounterparty(ctx, req, driver, params.ActorKind)
	s.reassigner.TriggerReassignment(req.ID)

	return result, nil
}

// settle runs the transactional part of a cancellation: marking the
// request, recording driver rejection, assessing and collecting the fee.
func (s *SettlementService) settle(ctx context.Context, params CancelParams) (*SettlementResult, *domain.Driver, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txRequestRepo := postgres.NewRequestRepositoryWithTx(tx)
	txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)
	txCancellationRepo := postgres.NewCancellationRepositoryWithTx(tx)

	var req *domain.RideRequest
	req, err = txRequestRepo.GetByIDForUpdate(ctx, params.RequestID)
	if err != nil {
		if err == repository.ErrNotFound {
			err = ErrNotAuthorized
		}
		return nil, nil, err
	}

	if err = authorizeActor(req, params); err != nil {
		return nil, nil, err
	}

	if req.IsCancelled {
		err = ErrAlreadyCancelled
		return nil, nil, err
	}

	req.IsCancelled = true
	req.CancelMethod = params.ActorKind
	req.CancelledAt = time.Now()
	req.Reason = params.ReasonID
	req.CustomReason = params.CustomReason

	if err = txRequestRepo.MarkCancelled(ctx, req); err != nil {
		return nil, nil, err
	}

	// Driver cancellations record the rejection and free the driver
	// before fee assessment, so attribution sees updated driver state.
	var driver *domain.Driver
	if params.ActorKind == domain.CancelMethodDriver {
		driver, err = txDriverRepo.GetByID(ctx, params.ActorID)
		if err != nil {
			return nil, nil, err
		}

		rejection := &domain.DriverRejection{
			ID:            uuid.New().String(),
			RequestID:     req.ID,
			DriverID:      driver.ID,
			IsAfterAccept: true,
			Reason:        params.ReasonID,
			CustomReason:  params.CustomReason,
			CreatedAt:     time.Now(),
		}
		if err = txCancellationRepo.CreateDriverRejection(ctx, rejection); err != nil {
			return nil, nil, err
		}

		if err = txDriverRepo.SetAvailable(ctx, driver.ID, true); err != nil {
			return nil, nil, err
		}
	} else if req.DriverID != "" {
		driver, err = txDriverRepo.GetByID(ctx, req.DriverID)
		if err != nil {
			return nil, nil, err
		}
	}

	var decision domain.FeeDecision
	decision, err = s.assessor.Assess(ctx, req, params.ReasonID, params.CustomReason)
	if err != nil {
		return nil, nil, err
	}

	result := &SettlementResult{Request: req}

	if decision.Applicable {
		var record *domain.CancellationFeeRecord
		record, err = s.collectFee(ctx, tx, req, driver, params.ActorKind, decision.Amount)
		if err != nil {
			return nil, nil, err
		}
		if err = txCancellationRepo.CreateFeeRecord(ctx, record); err != nil {
			return nil, nil, err
		}
		result.FeeApplied = true
		result.FeeAmount = decision.Amount
		result.FeeRecord = record
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}

	return result, driver, nil
}

// collectFee debits the liable party where a wallet is available and
// builds the fee record. Cash/card riders get an unpaid record only; the
// fee is collected out-of-band.
func (s *SettlementService) collectFee(ctx context.Context, tx *sql.Tx, req *domain.RideRequest, driver *domain.Driver, actor domain.CancelMethod, amount float64) (*domain.CancellationFeeRecord, error) {
	record := &domain.CancellationFeeRecord{
		ID:              uuid.New().String(),
		RequestID:       req.ID,
		CancellationFee: amount,
		CreatedAt:       time.Now(),
	}

	params := LedgerParams{
		Amount:        amount,
		Remarks:       domain.RemarksCancellationFee,
		RequestID:     req.ID,
		TransactionID: req.ID,
	}

	switch {
	case actor == domain.CancelMethodDriver:
		// Fleet-owner wallet takes precedence over the driver's own.
		if driver.FleetOwnerID != "" {
			params.OwnerKind = domain.WalletOwnerFleetOwner
			params.OwnerID = driver.FleetOwnerID
		} else {
			params.OwnerKind = domain.WalletOwnerDriver
			params.OwnerID = driver.ID
		}
		if _, err := s.ledger.DebitTx(ctx, tx, params); err != nil {
			return nil, err
		}
		record.DriverID = req.DriverID
		record.IsPaid = true
		record.PaidRequestID = req.ID

	case req.PaymentOption == domain.PaymentOptionWallet:
		params.OwnerKind = domain.WalletOwnerRider
		params.OwnerID = req.RiderID
		if _, err := s.ledger.DebitTx(ctx, tx, params); err != nil {
			return nil, err
		}
		record.RiderID = req.RiderID
		record.IsPaid = true
		record.PaidRequestID = req.ID

	default:
		// Nothing to debit; the assessed fee is owed and collected
		// out-of-band.
		record.RiderID = req.RiderID
		record.IsPaid = false
	}

	return record, nil
}

// authorizeActor verifies the request belongs to the cancelling actor.
func authorizeActor(req *domain.RideRequest, params CancelParams) error {
	switch params.ActorKind {
	case domain.CancelMethodRider:
		if req.RiderID != params.ActorID {
			return ErrNotAuthorized
		}
	case domain.CancelMethodDriver:
		if req.DriverID != params.ActorID {
			return ErrNotAuthorized
		}
	}
	return nil
}

// notifyCounterparty tells the other side of the trip about the
// cancellation.
func (s *SettlementService) notifyCounterparty(ctx context.Context, req *domain.RideRequest, driver *domain.Driver, actor domain.CancelMethod) {
	payload := map[string]interface{}{
		"success":         true,
		"success_message": "REQUEST_CANCELLED",
		"request_id":      req.ID,
		"cancel_method":   string(req.CancelMethod),
	}

	if actor == domain.CancelMethodRider {
		if driver == nil {
			return
		}
		if err := s.notifier.Send(ctx, driver.UserID, "Trip cancelled", "The rider has cancelled the trip."); err != nil {
			log.Printf("[SETTLEMENT] push to driver %s failed: %v", driver.ID, err)
		}
		if err := s.notifier.Broadcast(ctx, SocketEventTripCancelled, payload, driver.ID); err != nil {
			log.Printf("[SETTLEMENT] broadcast to driver %s failed: %v", driver.ID, err)
		}
		return
	}

	if err := s.notifier.Send(ctx, req.RiderID, "Trip cancelled", "The driver has cancelled the trip."); err != nil {
		log.Printf("[SETTLEMENT] push to rider %s failed: %v", req.RiderID, err)
	}
	if err := s.notifier.Broadcast(ctx, SocketEventTripCancelled, payload, req.RiderID); err != nil {
		log.Printf("[SETTLEMENT] broadcast to rider %s failed: %v", req.RiderID, err)
	}
}

// ConfirmPayment marks a request paid after the rider's client reports a
// completed charge, mirroring the flag into the realtime store.
func (s *SettlementService) ConfirmPayment(ctx context.Context, requestID, userID string) error {
	if requestID == "" {
		return ErrInvalidRequestID
	}

	requestRepo := postgres.NewRequestRepository(s.db)

	req, err := requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrNotAuthorized
		}
		return err
	}

	if userID != "" && req.RiderID != userID {
		return ErrNotAuthorized
	}

	if err := requestRepo.SetPaid(ctx, requestID, true); err != nil {
		return err
	}

	if err := s.realtime.MarkRequestPaid(ctx, requestID, true); err != nil {
		return err
	}

	// The intent is settled; retire the association so a later
	// cancellation has nothing to cancel.
	if err := s.realtime.ClearPaymentIntent(ctx, req.RiderID); err != nil {
		log.Printf("[SETTLEMENT] failed to clear intent for user %s: %v", req.RiderID, err)
	}

	return nil
}

// TopUpWallet credits a wallet after a confirmed gateway charge, tagging
// the ledger entry with the payment intent as external reference. The
// gateway redelivers events, so an intent id that was already credited
// returns the existing entry without mutating the wallet again.
func (s *SettlementService) TopUpWallet(ctx context.Context, kind domain.WalletOwnerKind, ownerID string, amount float64, intentID string) (*domain.LedgerEntry, error) {
	params := LedgerParams{
		OwnerKind:     kind,
		OwnerID:       ownerID,
		Amount:        amount,
		Remarks:       domain.RemarksWalletDeposit,
		TransactionID: intentID,
	}

	// No intent reference means no handle to dedupe on; manual credits
	// go through the plain path.
	if intentID == "" {
		entry, err := s.ledger.Credit(ctx, params)
		if err != nil {
			return nil, err
		}
		s.notifyTopUp(ctx, ownerID)
		return entry, nil
	}

	entry, created, err := s.ledger.CreditOnce(ctx, params)
	if err != nil {
		return nil, err
	}

	if !created {
		log.Printf("[SETTLEMENT] top-up for intent %s already credited, skipping", intentID)
		return entry, nil
	}

	s.notifyTopUp(ctx, ownerID)
	return entry, nil
}

func (s *SettlementService) notifyTopUp(ctx context.Context, ownerID string) {
	if err := s.notifier.Send(ctx, ownerID, "Wallet credited", "Amount has been credited to your wallet."); err != nil {
		log.Printf("[SETTLEMENT] top-up push to %s failed: %v", ownerID, err)
	}
}

// SetPaymentMethod switches the payment option for a request. Switching
// to cash resets the paid flag; cash is settled in person.
func (s *SettlementService) SetPaymentMethod(ctx context.Context, requestID, userID string, opt domain.PaymentOption) error {
	if requestID == "" {
		return ErrInvalidRequestID
	}

	switch opt {
	case domain.PaymentOptionCash, domain.PaymentOptionCard, domain.PaymentOptionWallet:
	default:
		return ErrInvalidPaymentOption
	}

	requestRepo := postgres.NewRequestRepository(s.db)

	req, err := requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrNotAuthorized
		}
		return err
	}

	if userID != "" && req.RiderID != userID {
		return ErrNotAuthorized
	}

	if err := requestRepo.SetPaymentOption(ctx, requestID, opt); err != nil {
		return err
	}

	if opt == domain.PaymentOptionCash {
		if err := requestRepo.SetPaid(ctx, requestID, false); err != nil {
			return err
		}
	}

	return nil
}
