package assess

import (
	"github.com/LeJamon/goHederad/internal/core/balance"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/safemath"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// FractionalFeeAssessor charges fees proportional to the units of a fungible
// token that leave the payer.
type FractionalFeeAssessor struct{}

// AssessAll charges every fractional fee of meta against the trigger debit.
func (FractionalFeeAssessor) AssessAll(
	trigger *balance.Change,
	meta *customfee.Meta,
	changes *balance.ChangeManager,
	assessed *[]customfee.AssessedCustomFee,
) status.ResponseCode {
	initialUnits := -trigger.Units()
	if initialUnits < 0 {
		return status.InvalidAccountAmounts
	}

	payer := trigger.Account()
	denom := meta.TokenID()
	unitsLeft := initialUnits
	credits := changes.CreditsInCurrentLevel(denom)

	for _, fee := range meta.FeesOfKind(customfee.KindFractional) {
		collector := fee.Collector()
		if payer == collector || IsPayerExempt(meta, fee, payer) {
			continue
		}
		spec, _ := fee.Fractional()

		amount, err := AmountOwed(initialUnits, spec)
		if err != nil {
			return status.CustomFeeOutsideNumericRange
		}

		var effectivePayers []types.AccountRef
		if spec.NetOfTransfers {
			if code := chargePayer(payer, denom, amount, changes); code != status.OK {
				return code
			}
			effectivePayers = []types.AccountRef{types.RefByID(payer)}
		} else {
			unitsLeft -= amount
			if unitsLeft < 0 {
				return status.CustomFeeOutsideNumericRange
			}
			left, err := reclaim(amount, credits)
			if err != nil {
				return status.CustomFeeOutsideNumericRange
			}
			if left < amount {
				for _, credit := range credits {
					effectivePayers = append(effectivePayers, credit.Ref())
				}
			}
			if left > 0 {
				if code := chargePayer(payer, denom, left, changes); code != status.OK {
					return code
				}
				effectivePayers = append(effectivePayers, types.RefByID(payer))
			}
		}

		if _, code := adjustedChange(types.RefByID(collector), denom, amount, changes); code != status.OK {
			return code
		}
		*assessed = append(*assessed, customfee.NewAssessedFeeFrom(collector, denom, amount, effectivePayers...))
	}
	return status.OK
}

// AmountOwed returns the fee on units: the nominal fraction raised to
// MinUnits and, when MaxUnits is positive, capped at MaxUnits.
func AmountOwed(units int64, spec customfee.FractionalFee) (int64, error) {
	nominal, err := safemath.FractionMultiply(spec.Numerator, spec.Denominator, units)
	if err != nil {
		return 0, err
	}
	amount := max(nominal, spec.MinUnits)
	if spec.MaxUnits > 0 {
		amount = min(amount, spec.MaxUnits)
	}
	return amount, nil
}

// chargePayer debits units of denom from the payer of a fractional fee
func chargePayer(payer types.AccountID, denom types.TokenID, units int64, changes *balance.ChangeManager) status.ResponseCode {
	debit, code := adjustedChange(types.RefByID(payer), denom, -units, changes)
	if code != status.OK {
		return code
	}
	debit.SetCodeOnInsufficientBalance(status.InsufficientPayerBalanceForCustomFee)
	return status.OK
}

// reclaim takes amount back from credits, first in proportion to each
// credit, then first-come for whatever rounding left over. It returns the
// part of amount the credits could not cover.
func reclaim(amount int64, credits []*balance.Change) (int64, error) {
	var available int64
	for _, credit := range credits {
		sum, err := safemath.AddExact(available, credit.Units())
		if err != nil {
			return 0, err
		}
		available = sum
	}
	if available <= 0 {
		return amount, nil
	}

	var reclaimed int64
	for _, credit := range credits {
		here, err := safemath.FractionMultiply(credit.Units(), available, min(amount, available))
		if err != nil {
			return 0, err
		}
		if err := credit.AggregateUnits(-here); err != nil {
			return 0, err
		}
		reclaimed += here
	}

	left := amount - reclaimed
	for _, credit := range credits {
		if left <= 0 {
			break
		}
		here := min(credit.Units(), left)
		if here <= 0 {
			continue
		}
		if err := credit.AggregateUnits(-here); err != nil {
			return 0, err
		}
		left -= here
	}
	return left, nil
}
