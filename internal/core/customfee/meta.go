package customfee

import (
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// TokenType distinguishes fungible from non-fungible tokens
type TokenType int

const (
	FungibleCommon TokenType = iota
	NonFungibleUnique
)

func (t TokenType) String() string {
	if t == NonFungibleUnique {
		return "NON_FUNGIBLE_UNIQUE"
	}
	return "FUNGIBLE_COMMON"
}

// Meta is the fee schedule of a token together with the facts needed to
// assess it. A Meta never changes once built.
type Meta struct {
	token     types.TokenID
	treasury  types.AccountID
	tokenType TokenType
	fees      []*CustomFee
}

// NewMeta builds the fee schedule of token
func NewMeta(token types.TokenID, treasury types.AccountID, tokenType TokenType, fees []*CustomFee) *Meta {
	return &Meta{
		token:     token,
		treasury:  treasury,
		tokenType: tokenType,
		fees:      append([]*CustomFee(nil), fees...),
	}
}

// MissingMeta is the schedule reported for a token that does not exist:
// no treasury and no fees.
func MissingMeta(token types.TokenID) *Meta {
	return &Meta{token: token, treasury: types.MissingAccountID}
}

// TokenID returns the token the schedule belongs to
func (m *Meta) TokenID() types.TokenID {
	return m.token
}

// Treasury returns the token's treasury, or the missing account for unknown tokens
func (m *Meta) Treasury() types.AccountID {
	return m.treasury
}

// TokenType returns the token's type
func (m *Meta) TokenType() TokenType {
	return m.tokenType
}

// Fees returns the schedule in declaration order
func (m *Meta) Fees() []*CustomFee {
	return append([]*CustomFee(nil), m.fees...)
}

// HasFees returns true if the schedule is not empty
func (m *Meta) HasFees() bool {
	return len(m.fees) > 0
}

// FeesOfKind returns the fees of one variant, in declaration order
func (m *Meta) FeesOfKind(kind Kind) []*CustomFee {
	var out []*CustomFee
	for _, fee := range m.fees {
		if fee.Kind() == kind {
			out = append(out, fee)
		}
	}
	return out
}

// Equal returns true if both schedules would assess identically
func (m *Meta) Equal(other *Meta) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.token != other.token || m.treasury != other.treasury || m.tokenType != other.tokenType {
		return false
	}
	if len(m.fees) != len(other.fees) {
		return false
	}
	for i := range m.fees {
		if !m.fees[i].Equal(other.fees[i]) {
			return false
		}
	}
	return true
}

// Validate checks that every fee is allowed on the token's type.
// FractionalFee is limited to fungible tokens and RoyaltyFee to non-fungible ones.
func (m *Meta) Validate() error {
	for _, fee := range m.fees {
		switch fee.Kind() {
		case KindFractional:
			if m.tokenType != FungibleCommon {
				return invalid(status.CustomFractionalFeeOnlyAllowedForFungibleCommon)
			}
		case KindRoyalty:
			if m.tokenType != NonFungibleUnique {
				return invalid(status.CustomRoyaltyFeeOnlyAllowedForNonFungibleUnique)
			}
		}
	}
	return nil
}
