package config

import "fmt"

// TransfersConfig represents the [transfers] section
type TransfersConfig struct {
	MaxHbarAdjusts      int  `toml:"max_hbar_adjusts" mapstructure:"max_hbar_adjusts"`
	MaxTokenAdjusts     int  `toml:"max_token_adjusts" mapstructure:"max_token_adjusts"`
	MaxOwnershipChanges int  `toml:"max_ownership_changes" mapstructure:"max_ownership_changes"`
	MaxFeeNesting       int  `toml:"max_fee_nesting" mapstructure:"max_fee_nesting"`
	MaxBalanceChanges   int  `toml:"max_balance_changes" mapstructure:"max_balance_changes"`
	NftsEnabled         bool `toml:"nfts_enabled" mapstructure:"nfts_enabled"`
	AutoCreationEnabled bool `toml:"auto_creation_enabled" mapstructure:"auto_creation_enabled"`
	LazyCreationEnabled bool `toml:"lazy_creation_enabled" mapstructure:"lazy_creation_enabled"`
	AllowancesEnabled   bool `toml:"allowances_enabled" mapstructure:"allowances_enabled"`
}

// Validate performs validation on the transfers configuration
func (t *TransfersConfig) Validate() error {
	limits := []struct {
		name  string
		value int
	}{
		{"max_hbar_adjusts", t.MaxHbarAdjusts},
		{"max_token_adjusts", t.MaxTokenAdjusts},
		{"max_ownership_changes", t.MaxOwnershipChanges},
		{"max_balance_changes", t.MaxBalanceChanges},
	}
	for _, l := range limits {
		if l.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", l.name, l.value)
		}
	}
	if t.MaxFeeNesting < 0 {
		return fmt.Errorf("max_fee_nesting cannot be negative, got %d", t.MaxFeeNesting)
	}
	return nil
}
