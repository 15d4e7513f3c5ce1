package service

import (
	"context"
	"errors"

	"settlement/internal/domain"
	"settlement/internal/repository"
)

// FeeAssessor computes whether, and how much, a cancellation fee applies.
// It reads reference data only and performs no mutations.
type FeeAssessor struct {
	cancellationRepo repository.CancellationRepository
	pricingRepo      repository.PricingRepository
}

// NewFeeAssessor creates a new FeeAssessor.
func NewFeeAssessor(cancellationRepo repository.CancellationRepository, pricingRepo repository.PricingRepository) *FeeAssessor {
	return &FeeAssessor{
		cancellationRepo: cancellationRepo,
		pricingRepo:      pricingRepo,
	}
}

// Assess decides the fee for one cancellation.
//
// A free-text custom reason makes the fee applicable by default. A catalog
// reason overrides that: payment_type FREE waives the fee, anything else
// charges it. A reason id that resolves to nothing also waives the fee —
// intentional preservation of upstream policy; see the regression test
// before changing this.
func (a *FeeAssessor) Assess(ctx context.Context, req *domain.RideRequest, reasonID, customReason string) (domain.FeeDecision, error) {
	applicable := false

	if customReason != "" {
		applicable = true
	}

	if reasonID != "" {
		reason, err := a.cancellationRepo.GetReason(ctx, reasonID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.FeeDecision{}, nil
			}
			return domain.FeeDecision{}, err
		}
		applicable = reason.PaymentType != domain.ReasonPaymentFree
	}

	if !applicable {
		return domain.FeeDecision{}, nil
	}

	fee, err := a.pricingRepo.GetCancellationFee(ctx, req.ZoneTypeID, req.Timing())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.FeeDecision{}, ErrNoPricingTier
		}
		return domain.FeeDecision{}, err
	}

	return domain.FeeDecision{Applicable: true, Amount: fee}, nil
}
