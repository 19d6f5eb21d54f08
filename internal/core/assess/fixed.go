package assess

import (
	"github.com/LeJamon/goHederad/internal/core/balance"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// FixedFeeAssessor charges flat fees, in hbar or in a token.
type FixedFeeAssessor struct{}

// Assess moves the fee's units from payer to its collector.
func (f FixedFeeAssessor) Assess(
	payer types.AccountRef,
	meta *customfee.Meta,
	fee *customfee.CustomFee,
	changes *balance.ChangeManager,
	assessed *[]customfee.AssessedCustomFee,
) status.ResponseCode {
	return f.assessAs(payer, meta, fee, fee, changes, assessed)
}

// assessAs charges fee with exemptions decided as if it were owner, the
// schedule entry fee was derived from.
func (FixedFeeAssessor) assessAs(
	payer types.AccountRef,
	meta *customfee.Meta,
	fee *customfee.CustomFee,
	owner *customfee.CustomFee,
	changes *balance.ChangeManager,
	assessed *[]customfee.AssessedCustomFee,
) status.ResponseCode {
	spec, ok := fee.Fixed()
	if !ok {
		return status.FailInvalid
	}
	if IsPayerExempt(meta, owner, payer.ID) {
		return status.OK
	}

	denom := spec.DenominatingToken
	debit, code := adjustedChange(payer, denom, -spec.Units, changes)
	if code != status.OK {
		return code
	}
	debit.SetCodeOnInsufficientBalance(status.InsufficientPayerBalanceForCustomFee)

	if _, code = adjustedChange(types.RefByID(fee.Collector()), denom, spec.Units, changes); code != status.OK {
		return code
	}

	*assessed = append(*assessed, customfee.NewAssessedFeeFrom(fee.Collector(), denom, spec.Units, payer))
	return status.OK
}

// adjustedChange merges units into the (account, denom) change, creating it
// at the end of the ledger if absent.
func adjustedChange(account types.AccountRef, denom types.TokenID, units int64, changes *balance.ChangeManager) (*balance.Change, status.ResponseCode) {
	change := changes.ChangeForRef(account, denom)
	if change == nil {
		change = balance.NewAdjustment(account, denom, units)
		changes.IncludeChange(change)
		return change, status.OK
	}
	if err := change.AggregateUnits(units); err != nil {
		return nil, status.CustomFeeOutsideNumericRange
	}
	return change, status.OK
}
