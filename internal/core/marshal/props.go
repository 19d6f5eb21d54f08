package marshal

import "github.com/LeJamon/goHederad/internal/core/assess"

// Defaults used when no configuration overrides them.
const (
	DefaultMaxHbarAdjusts      = 10
	DefaultMaxTokenAdjusts     = 10
	DefaultMaxOwnershipChanges = 10
	DefaultMaxFeeNesting       = 1
	DefaultMaxBalanceChanges   = 20
)

// ValidationProps are the network settings an assessment depends on. Two
// assessments of the same transfer agree only if their props are equal.
type ValidationProps struct {
	MaxHbarAdjusts        int  `json:"max_hbar_adjusts"`
	MaxTokenAdjusts       int  `json:"max_token_adjusts"`
	MaxOwnershipChanges   int  `json:"max_ownership_changes"`
	MaxFeeNesting         int  `json:"max_fee_nesting"`
	MaxBalanceChanges     int  `json:"max_balance_changes"`
	AreNftsEnabled        bool `json:"nfts_enabled"`
	IsAutoCreationEnabled bool `json:"auto_creation_enabled"`
	IsLazyCreationEnabled bool `json:"lazy_creation_enabled"`
	AreAllowancesEnabled  bool `json:"allowances_enabled"`
}

// DefaultValidationProps returns the default limits with every feature enabled
func DefaultValidationProps() ValidationProps {
	return ValidationProps{
		MaxHbarAdjusts:        DefaultMaxHbarAdjusts,
		MaxTokenAdjusts:       DefaultMaxTokenAdjusts,
		MaxOwnershipChanges:   DefaultMaxOwnershipChanges,
		MaxFeeNesting:         DefaultMaxFeeNesting,
		MaxBalanceChanges:     DefaultMaxBalanceChanges,
		AreNftsEnabled:        true,
		IsAutoCreationEnabled: true,
		IsLazyCreationEnabled: true,
		AreAllowancesEnabled:  true,
	}
}

// Limits returns the part of the props that bounds fee assessment
func (p ValidationProps) Limits() assess.Limits {
	return assess.Limits{
		MaxFeeNesting:     p.MaxFeeNesting,
		MaxBalanceChanges: p.MaxBalanceChanges,
	}
}
