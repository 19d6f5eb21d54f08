package customfee

import (
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// FeeRecord is the flat, serializable form of a CustomFee.
type FeeRecord struct {
	Kind                string          `json:"kind" codec:"kind"`
	Collector           types.AccountID `json:"collector" codec:"collector"`
	AllCollectorsExempt bool            `json:"all_collectors_exempt,omitempty" codec:"exempt,omitempty"`

	// fixed
	Units             int64         `json:"units,omitempty" codec:"units,omitempty"`
	DenominatingToken types.TokenID `json:"denominating_token,omitempty" codec:"denom,omitempty"`

	// fractional and royalty
	Numerator   int64 `json:"numerator,omitempty" codec:"num,omitempty"`
	Denominator int64 `json:"denominator,omitempty" codec:"den,omitempty"`

	// fractional
	MinUnits       int64 `json:"min_units,omitempty" codec:"min,omitempty"`
	MaxUnits       int64 `json:"max_units,omitempty" codec:"max,omitempty"`
	NetOfTransfers bool  `json:"net_of_transfers,omitempty" codec:"net,omitempty"`

	// royalty
	Fallback *FixedFeeRecord `json:"fallback,omitempty" codec:"fallback,omitempty"`
}

// FixedFeeRecord is the serializable form of a royalty fallback.
type FixedFeeRecord struct {
	Units             int64         `json:"units" codec:"units"`
	DenominatingToken types.TokenID `json:"denominating_token,omitempty" codec:"denom,omitempty"`
}

// MetaRecord is the serializable form of a token's fee schedule.
type MetaRecord struct {
	Token     types.TokenID   `json:"token" codec:"token"`
	Treasury  types.AccountID `json:"treasury" codec:"treasury"`
	TokenType string          `json:"token_type" codec:"type"`
	Fees      []FeeRecord     `json:"fees" codec:"fees"`
}

// Record returns the serializable form of the fee
func (f *CustomFee) Record() FeeRecord {
	rec := FeeRecord{
		Kind:                f.Kind().String(),
		Collector:           f.collector,
		AllCollectorsExempt: f.allCollectorsExempt,
	}
	switch spec := f.spec.(type) {
	case FixedFee:
		rec.Units = spec.Units
		rec.DenominatingToken = spec.DenominatingToken
	case FractionalFee:
		rec.Numerator = spec.Numerator
		rec.Denominator = spec.Denominator
		rec.MinUnits = spec.MinUnits
		rec.MaxUnits = spec.MaxUnits
		rec.NetOfTransfers = spec.NetOfTransfers
	case RoyaltyFee:
		rec.Numerator = spec.Numerator
		rec.Denominator = spec.Denominator
		if spec.Fallback != nil {
			rec.Fallback = &FixedFeeRecord{
				Units:             spec.Fallback.Units,
				DenominatingToken: spec.Fallback.DenominatingToken,
			}
		}
	}
	return rec
}

// Fee rebuilds and validates the fee described by the record
func (r FeeRecord) Fee() (*CustomFee, error) {
	switch r.Kind {
	case "fixed":
		return NewFixedFee(r.Units, r.DenominatingToken, r.Collector, r.AllCollectorsExempt)
	case "fractional":
		return NewFractionalFee(r.Numerator, r.Denominator, r.MinUnits, r.MaxUnits, r.NetOfTransfers, r.Collector, r.AllCollectorsExempt)
	case "royalty":
		var fallback *FixedFee
		if r.Fallback != nil {
			fallback = &FixedFee{Units: r.Fallback.Units, DenominatingToken: r.Fallback.DenominatingToken}
		}
		return NewRoyaltyFee(r.Numerator, r.Denominator, fallback, r.Collector, r.AllCollectorsExempt)
	default:
		return nil, invalid(status.CustomFeeNotFullySpecified)
	}
}

// Record returns the serializable form of the schedule
func (m *Meta) Record() MetaRecord {
	rec := MetaRecord{
		Token:     m.token,
		Treasury:  m.treasury,
		TokenType: m.tokenType.String(),
		Fees:      make([]FeeRecord, 0, len(m.fees)),
	}
	for _, fee := range m.fees {
		rec.Fees = append(rec.Fees, fee.Record())
	}
	return rec
}

// Meta rebuilds and validates the schedule described by the record
func (r MetaRecord) Meta() (*Meta, error) {
	var tokenType TokenType
	switch r.TokenType {
	case "", "FUNGIBLE_COMMON":
		tokenType = FungibleCommon
	case "NON_FUNGIBLE_UNIQUE":
		tokenType = NonFungibleUnique
	default:
		return nil, invalid(status.CustomFeeNotFullySpecified)
	}
	if r.Token.IsHbar() {
		return nil, invalid(status.InvalidTokenID)
	}

	fees := make([]*CustomFee, 0, len(r.Fees))
	for _, fr := range r.Fees {
		fee, err := fr.Fee()
		if err != nil {
			return nil, err
		}
		fees = append(fees, fee)
	}

	meta := NewMeta(r.Token, r.Treasury, tokenType, fees)
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return meta, nil
}
