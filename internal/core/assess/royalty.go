package assess

import (
	"github.com/LeJamon/goHederad/internal/core/balance"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/safemath"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// RoyaltyFeeAssessor charges NFT senders a share of the value they received
// in exchange, or the receiver a fallback fee when nothing was exchanged.
type RoyaltyFeeAssessor struct {
	Fixed FixedFeeAssessor
}

// AssessAll charges every royalty fee of meta against an NFT ownership change.
// A sender pays royalties on a token at most once per assessment.
func (r RoyaltyFeeAssessor) AssessAll(
	trigger *balance.Change,
	meta *customfee.Meta,
	changes *balance.ChangeManager,
	assessed *[]customfee.AssessedCustomFee,
) status.ResponseCode {
	if !trigger.IsForNft() {
		return status.FailInvalid
	}
	payer := trigger.Account()
	token := trigger.Token()
	if changes.IsRoyaltyPaid(token, payer) {
		return status.OK
	}

	exchanged := changes.FungibleCreditsInCurrentLevel(payer)
	for _, fee := range meta.FeesOfKind(customfee.KindRoyalty) {
		if len(exchanged) == 0 {
			fallback := fee.FallbackFee()
			if fallback == nil {
				continue
			}
			if code := r.Fixed.assessAs(trigger.CounterPartyRef(), meta, fallback, fee, changes, assessed); code != status.OK {
				return code
			}
			continue
		}
		if IsPayerExempt(meta, fee, payer) {
			continue
		}
		spec, _ := fee.Royalty()
		if code := chargeExchangedValue(payer, fee.Collector(), spec, exchanged, changes, assessed); code != status.OK {
			return code
		}
	}

	changes.MarkRoyaltyPaid(token, payer)
	return status.OK
}

func chargeExchangedValue(
	payer, collector types.AccountID,
	spec customfee.RoyaltyFee,
	exchanged []*balance.Change,
	changes *balance.ChangeManager,
	assessed *[]customfee.AssessedCustomFee,
) status.ResponseCode {
	for _, exchange := range exchanged {
		fee, err := safemath.FractionMultiply(spec.Numerator, spec.Denominator, exchange.OriginalUnits())
		if err != nil {
			return status.CustomFeeOutsideNumericRange
		}
		if exchange.Units() < fee {
			return status.InsufficientSenderAccountBalanceForCustomFee
		}
		if err := exchange.AggregateUnits(-fee); err != nil {
			return status.CustomFeeOutsideNumericRange
		}
		denom := exchange.Token()
		if _, code := adjustedChange(types.RefByID(collector), denom, fee, changes); code != status.OK {
			return code
		}
		*assessed = append(*assessed, customfee.NewAssessedFee(collector, denom, fee, payer))
	}
	return status.OK
}
