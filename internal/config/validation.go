package config

import "fmt"

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Transfers.Validate(); err != nil {
		return fmt.Errorf("transfers validation failed: %w", err)
	}
	if err := config.Storage.Validate(); err != nil {
		return fmt.Errorf("storage validation failed: %w", err)
	}
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	return nil
}
