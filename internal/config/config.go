package config

import (
	"fmt"
	"path/filepath"

	"github.com/LeJamon/goHederad/internal/core/marshal"
)

// Config represents the complete hederad configuration
type Config struct {
	// Limits and feature flags of transfer assessment
	Transfers TransfersConfig `toml:"transfers" mapstructure:"transfers"`

	// Storage of fee schedules and aliases
	Storage StorageConfig `toml:"storage" mapstructure:"storage"`

	// JSON-RPC server
	Server ServerConfig `toml:"server" mapstructure:"server"`

	Log LogConfig `toml:"log" mapstructure:"log"`

	// Internal fields
	configPath string `toml:"-" mapstructure:"-"`
}

// ConfigPath returns the file the configuration was loaded from, if any
func (c *Config) ConfigPath() string {
	return c.configPath
}

// ToValidationProps returns the props transfers are assessed with
func (c *Config) ToValidationProps() marshal.ValidationProps {
	t := c.Transfers
	return marshal.ValidationProps{
		MaxHbarAdjusts:        t.MaxHbarAdjusts,
		MaxTokenAdjusts:       t.MaxTokenAdjusts,
		MaxOwnershipChanges:   t.MaxOwnershipChanges,
		MaxFeeNesting:         t.MaxFeeNesting,
		MaxBalanceChanges:     t.MaxBalanceChanges,
		AreNftsEnabled:        t.NftsEnabled,
		IsAutoCreationEnabled: t.AutoCreationEnabled,
		IsLazyCreationEnabled: t.LazyCreationEnabled,
		AreAllowancesEnabled:  t.AllowancesEnabled,
	}
}

// StoragePath returns the storage path, relative paths being resolved
// against the directory of the configuration file.
func (c *Config) StoragePath() string {
	if c.Storage.Path == "" || filepath.IsAbs(c.Storage.Path) || c.configPath == "" {
		return c.Storage.Path
	}
	return filepath.Join(filepath.Dir(c.configPath), c.Storage.Path)
}

// ListenAddr returns the host:port the server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
