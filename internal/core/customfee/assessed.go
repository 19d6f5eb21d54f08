package customfee

import "github.com/LeJamon/goHederad/internal/core/types"

// AssessedCustomFee is the audit entry of one fee charge.
// Token is types.Hbar for hbar-denominated charges. A payer still to be
// created is referenced by its alias.
type AssessedCustomFee struct {
	Collector       types.AccountID    `json:"collector"`
	Token           types.TokenID      `json:"token"`
	Units           int64              `json:"units"`
	EffectivePayers []types.AccountRef `json:"effective_payers"`
}

// NewAssessedFee builds an audit entry
func NewAssessedFee(collector types.AccountID, token types.TokenID, units int64, payers ...types.AccountID) AssessedCustomFee {
	var refs []types.AccountRef
	if len(payers) > 0 {
		refs = make([]types.AccountRef, 0, len(payers))
		for _, payer := range payers {
			refs = append(refs, types.RefByID(payer))
		}
	}
	return NewAssessedFeeFrom(collector, token, units, refs...)
}

// NewAssessedFeeFrom builds an audit entry whose payers may be aliases
func NewAssessedFeeFrom(collector types.AccountID, token types.TokenID, units int64, payers ...types.AccountRef) AssessedCustomFee {
	return AssessedCustomFee{
		Collector:       collector,
		Token:           token,
		Units:           units,
		EffectivePayers: payers,
	}
}

// IsHbar returns true if the charge was denominated in hbar
func (a AssessedCustomFee) IsHbar() bool {
	return a.Token.IsHbar()
}
