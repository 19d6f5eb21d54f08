package customfee

import (
	"fmt"

	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// Kind discriminates the variants of a fee spec
type Kind int

const (
	KindFixed Kind = iota
	KindFractional
	KindRoyalty
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindFractional:
		return "fractional"
	case KindRoyalty:
		return "royalty"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec is the pricing rule of a custom fee. The set of implementations is
// closed: FixedFee, FractionalFee and RoyaltyFee.
type Spec interface {
	Kind() Kind
	sealed()
}

// FixedFee charges a flat amount, in hbar when DenominatingToken is types.Hbar.
type FixedFee struct {
	Units             int64
	DenominatingToken types.TokenID
}

func (FixedFee) Kind() Kind { return KindFixed }
func (FixedFee) sealed()    {}

// IsHbar returns true if the fee is denominated in hbar
func (f FixedFee) IsHbar() bool {
	return f.DenominatingToken.IsHbar()
}

// FractionalFee charges a fraction of the units moved, clamped to [MinUnits, MaxUnits].
// A MaxUnits of zero means there is no maximum.
type FractionalFee struct {
	Numerator      int64
	Denominator    int64
	MinUnits       int64
	MaxUnits       int64
	NetOfTransfers bool
}

func (FractionalFee) Kind() Kind { return KindFractional }
func (FractionalFee) sealed()    {}

// RoyaltyFee charges a fraction of the value exchanged for an NFT, or the
// Fallback fixed fee when nothing was exchanged.
type RoyaltyFee struct {
	Numerator   int64
	Denominator int64
	Fallback    *FixedFee
}

func (RoyaltyFee) Kind() Kind { return KindRoyalty }
func (RoyaltyFee) sealed()    {}

// CustomFee is a fee attached to a token, payable to Collector.
type CustomFee struct {
	spec                Spec
	collector           types.AccountID
	allCollectorsExempt bool
}

// Error reports why a custom fee definition was rejected.
type Error struct {
	Code status.ResponseCode
}

func (e *Error) Error() string {
	return "invalid custom fee: " + e.Code.String()
}

func invalid(code status.ResponseCode) error {
	return &Error{Code: code}
}

// NewFixedFee builds a fixed fee payable to collector
func NewFixedFee(units int64, denom types.TokenID, collector types.AccountID, allCollectorsExempt bool) (*CustomFee, error) {
	spec := FixedFee{Units: units, DenominatingToken: denom}
	if err := validateFixed(spec); err != nil {
		return nil, err
	}
	return newFee(spec, collector, allCollectorsExempt)
}

// NewFractionalFee builds a fractional fee payable to collector
func NewFractionalFee(numerator, denominator, minUnits, maxUnits int64, netOfTransfers bool, collector types.AccountID, allCollectorsExempt bool) (*CustomFee, error) {
	spec := FractionalFee{
		Numerator:      numerator,
		Denominator:    denominator,
		MinUnits:       minUnits,
		MaxUnits:       maxUnits,
		NetOfTransfers: netOfTransfers,
	}
	if spec.Denominator == 0 {
		return nil, invalid(status.FractionDividesByZero)
	}
	if spec.Numerator <= 0 || spec.Denominator < 0 || spec.MinUnits < 0 || spec.MaxUnits < 0 {
		return nil, invalid(status.CustomFeeMustBePositive)
	}
	if spec.MaxUnits > 0 && spec.MaxUnits < spec.MinUnits {
		return nil, invalid(status.FractionalFeeMaxAmountLessThanMinAmount)
	}
	return newFee(spec, collector, allCollectorsExempt)
}

// NewRoyaltyFee builds a royalty fee payable to collector; fallback may be nil
func NewRoyaltyFee(numerator, denominator int64, fallback *FixedFee, collector types.AccountID, allCollectorsExempt bool) (*CustomFee, error) {
	if denominator == 0 {
		return nil, invalid(status.FractionDividesByZero)
	}
	if numerator <= 0 || denominator < 0 {
		return nil, invalid(status.CustomFeeMustBePositive)
	}
	if numerator > denominator {
		return nil, invalid(status.RoyaltyFractionCannotExceedOne)
	}
	spec := RoyaltyFee{Numerator: numerator, Denominator: denominator}
	if fallback != nil {
		if err := validateFixed(*fallback); err != nil {
			return nil, err
		}
		fb := *fallback
		spec.Fallback = &fb
	}
	return newFee(spec, collector, allCollectorsExempt)
}

func validateFixed(spec FixedFee) error {
	if spec.Units <= 0 {
		return invalid(status.CustomFeeMustBePositive)
	}
	return nil
}

func newFee(spec Spec, collector types.AccountID, allCollectorsExempt bool) (*CustomFee, error) {
	if collector.IsMissing() {
		return nil, invalid(status.InvalidCustomFeeCollector)
	}
	return &CustomFee{spec: spec, collector: collector, allCollectorsExempt: allCollectorsExempt}, nil
}

// Spec returns the pricing rule
func (f *CustomFee) Spec() Spec {
	return f.spec
}

// Kind returns the variant of the pricing rule
func (f *CustomFee) Kind() Kind {
	return f.spec.Kind()
}

// Collector returns the account credited with the fee
func (f *CustomFee) Collector() types.AccountID {
	return f.collector
}

// AllCollectorsExempt reports whether collectors of other fees on the same
// token are exempt from this fee
func (f *CustomFee) AllCollectorsExempt() bool {
	return f.allCollectorsExempt
}

// Fixed returns the spec as a fixed fee
func (f *CustomFee) Fixed() (FixedFee, bool) {
	spec, ok := f.spec.(FixedFee)
	return spec, ok
}

// Fractional returns the spec as a fractional fee
func (f *CustomFee) Fractional() (FractionalFee, bool) {
	spec, ok := f.spec.(FractionalFee)
	return spec, ok
}

// Royalty returns the spec as a royalty fee
func (f *CustomFee) Royalty() (RoyaltyFee, bool) {
	spec, ok := f.spec.(RoyaltyFee)
	return spec, ok
}

// FallbackFee returns the fixed fee charged in place of a royalty when no
// value was exchanged for the NFT. It shares the royalty's collector and
// exemption flag. Returns nil if the fee is not a royalty with a fallback.
func (f *CustomFee) FallbackFee() *CustomFee {
	spec, ok := f.spec.(RoyaltyFee)
	if !ok || spec.Fallback == nil {
		return nil
	}
	return &CustomFee{
		spec:                *spec.Fallback,
		collector:           f.collector,
		allCollectorsExempt: f.allCollectorsExempt,
	}
}

// Equal returns true if both fees have the same rule, collector and exemption flag
func (f *CustomFee) Equal(other *CustomFee) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.collector != other.collector || f.allCollectorsExempt != other.allCollectorsExempt {
		return false
	}
	switch a := f.spec.(type) {
	case FixedFee:
		b, ok := other.spec.(FixedFee)
		return ok && a == b
	case FractionalFee:
		b, ok := other.spec.(FractionalFee)
		return ok && a == b
	case RoyaltyFee:
		b, ok := other.spec.(RoyaltyFee)
		if !ok || a.Numerator != b.Numerator || a.Denominator != b.Denominator {
			return false
		}
		if a.Fallback == nil || b.Fallback == nil {
			return a.Fallback == b.Fallback
		}
		return *a.Fallback == *b.Fallback
	default:
		return false
	}
}

func (f *CustomFee) String() string {
	return fmt.Sprintf("%s fee to %s", f.spec.Kind(), f.collector)
}
