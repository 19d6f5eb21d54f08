package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/LeJamon/goHederad/internal/core/marshal"
)

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	// Transfers defaults
	v.SetDefault("transfers.max_hbar_adjusts", marshal.DefaultMaxHbarAdjusts)
	v.SetDefault("transfers.max_token_adjusts", marshal.DefaultMaxTokenAdjusts)
	v.SetDefault("transfers.max_ownership_changes", marshal.DefaultMaxOwnershipChanges)
	v.SetDefault("transfers.max_fee_nesting", marshal.DefaultMaxFeeNesting)
	v.SetDefault("transfers.max_balance_changes", marshal.DefaultMaxBalanceChanges)
	v.SetDefault("transfers.nfts_enabled", true)
	v.SetDefault("transfers.auto_creation_enabled", true)
	v.SetDefault("transfers.lazy_creation_enabled", true)
	v.SetDefault("transfers.allowances_enabled", true)

	// Storage defaults
	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.path", "data")
	v.SetDefault("storage.cache_size", 64<<20)
	v.SetDefault("storage.compression", "lz4")
	v.SetDefault("storage.schedule_cache_entries", 1024)
	v.SetDefault("storage.alias_cache_entries", 4096)

	// Server defaults
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 5280)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	// Log defaults
	v.SetDefault("log.level", "info")
}
