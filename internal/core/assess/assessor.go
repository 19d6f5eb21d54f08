package assess

import (
	"context"

	"github.com/LeJamon/goHederad/internal/core/balance"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/status"
)

// Limits bound the work one assessment may do.
type Limits struct {
	// MaxFeeNesting is the deepest level whose changes may still trigger fees
	MaxFeeNesting int
	// MaxBalanceChanges caps the number of changes, original ones included
	MaxBalanceChanges int
}

// FeeAssessor charges the custom fees triggered by one change.
type FeeAssessor struct {
	Fixed      FixedFeeAssessor
	Fractional FractionalFeeAssessor
	Royalty    RoyaltyFeeAssessor
}

// NewFeeAssessor returns an assessor for every fee kind
func NewFeeAssessor() *FeeAssessor {
	fixed := FixedFeeAssessor{}
	return &FeeAssessor{
		Fixed:      fixed,
		Fractional: FractionalFeeAssessor{},
		Royalty:    RoyaltyFeeAssessor{Fixed: fixed},
	}
}

// Assess charges the fees of trigger's token: fixed fees first, one at a
// time, then the fractional fees of a fungible debit or the royalties of an
// NFT change. The returned error is set only when a schedule lookup fails.
func (a *FeeAssessor) Assess(
	ctx context.Context,
	trigger *balance.Change,
	schedules *SchedulesManager,
	changes *balance.ChangeManager,
	assessed *[]customfee.AssessedCustomFee,
	limits Limits,
) (status.ResponseCode, error) {
	if changes.LevelNo() > limits.MaxFeeNesting {
		return status.CustomFeeChargingExceededMaxRecursionDepth, nil
	}

	meta, err := schedules.ManagedSchedulesFor(ctx, trigger.Token())
	if err != nil {
		return status.FailInvalid, err
	}
	payer := trigger.Ref()
	if payer.ID == meta.Treasury() || !meta.HasFees() {
		return status.OK, nil
	}

	for _, fee := range meta.FeesOfKind(customfee.KindFixed) {
		if code := a.Fixed.Assess(payer, meta, fee, changes, assessed); code != status.OK {
			return code, nil
		}
		if changes.NumChangesSoFar() > limits.MaxBalanceChanges {
			return status.CustomFeeChargingExceededMaxAccountAmounts, nil
		}
	}

	var code status.ResponseCode
	if trigger.IsForNft() {
		code = a.Royalty.AssessAll(trigger, meta, changes, assessed)
	} else {
		code = a.Fractional.AssessAll(trigger, meta, changes, assessed)
	}
	if code != status.OK {
		return code, nil
	}
	if changes.NumChangesSoFar() > limits.MaxBalanceChanges {
		return status.CustomFeeChargingExceededMaxAccountAmounts, nil
	}
	return status.OK, nil
}
