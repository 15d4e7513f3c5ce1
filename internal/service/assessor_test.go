package service

import (
	"context"
	"testing"

	"settlement/internal/domain"
)

func TestFeeAssessor_Assess(t *testing.T) {
	freeReason := &domain.CancellationReason{ID: "reason-free", Description: "Driver too far", PaymentType: domain.ReasonPaymentFree}
	paidReason := &domain.CancellationReason{ID: "reason-paid", Description: "Changed my mind", PaymentType: domain.ReasonPaymentPaid}

	tests := []struct {
		name           string
		reasonID       string
		customReason   string
		isLater        bool
		wantApplicable bool
		wantAmount     float64
	}{
		{
			name:           "custom reason charges the fee",
			customReason:   "running late",
			wantApplicable: true,
			wantAmount:     20,
		},
		{
			name:           "free catalog reason waives the fee",
			reasonID:       "reason-free",
			wantApplicable: false,
		},
		{
			name:           "paid catalog reason charges the fee",
			reasonID:       "reason-paid",
			wantApplicable: true,
			wantAmount:     20,
		},
		{
			name:           "free catalog reason overrides custom reason",
			reasonID:       "reason-free",
			customReason:   "running late",
			wantApplicable: false,
		},
		{
			name:           "no reason at all waives the fee",
			wantApplicable: false,
		},
		{
			name:           "scheduled request uses the scheduled tier",
			customReason:   "running late",
			isLater:        true,
			wantApplicable: true,
			wantAmount:     35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cancellationRepo := NewMockCancellationRepo()
			cancellationRepo.AddReason(freeReason)
			cancellationRepo.AddReason(paidReason)

			pricingRepo := NewMockPricingRepo()
			pricingRepo.AddFee("zone-1", domain.RideTimingNow, 20)
			pricingRepo.AddFee("zone-1", domain.RideTimingLater, 35)

			assessor := NewFeeAssessor(cancellationRepo, pricingRepo)

			req := &domain.RideRequest{ID: "req-1", ZoneTypeID: "zone-1", IsLater: tt.isLater}

			decision, err := assessor.Assess(context.Background(), req, tt.reasonID, tt.customReason)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if decision.Applicable != tt.wantApplicable {
				t.Errorf("expected applicable=%v, got %v", tt.wantApplicable, decision.Applicable)
			}
			if decision.Amount != tt.wantAmount {
				t.Errorf("expected amount %v, got %v", tt.wantAmount, decision.Amount)
			}
		})
	}
}

// A reason id that resolves to nothing waives the fee even alongside a
// custom reason. Upstream behaved this way and billing reconciliation
// depends on it; do not "fix" the lookup without migrating old records.
func TestFeeAssessor_UnresolvedReasonWaivesFee(t *testing.T) {
	cancellationRepo := NewMockCancellationRepo()
	pricingRepo := NewMockPricingRepo()
	pricingRepo.AddFee("zone-1", domain.RideTimingNow, 20)

	assessor := NewFeeAssessor(cancellationRepo, pricingRepo)

	req := &domain.RideRequest{ID: "req-1", ZoneTypeID: "zone-1"}

	decision, err := assessor.Assess(context.Background(), req, "no-such-reason", "running late")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decision.Applicable {
		t.Errorf("expected fee waived for unresolved reason, got applicable with amount %v", decision.Amount)
	}
}

func TestFeeAssessor_MissingPricingTier(t *testing.T) {
	cancellationRepo := NewMockCancellationRepo()
	pricingRepo := NewMockPricingRepo()

	assessor := NewFeeAssessor(cancellationRepo, pricingRepo)

	req := &domain.RideRequest{ID: "req-1", ZoneTypeID: "zone-without-prices"}

	_, err := assessor.Assess(context.Background(), req, "", "running late")
	if err != ErrNoPricingTier {
		t.Errorf("expected ErrNoPricingTier, got %v", err)
	}
}
