package config

import (
	"fmt"
	"strings"
)

// StorageConfig represents the [storage] section
type StorageConfig struct {
	Backend     string `toml:"backend" mapstructure:"backend"`
	Path        string `toml:"path" mapstructure:"path"`
	CacheSize   int64  `toml:"cache_size" mapstructure:"cache_size"`
	Compression string `toml:"compression" mapstructure:"compression"`

	// Entries kept in the schedule and alias read caches
	ScheduleCacheEntries int `toml:"schedule_cache_entries" mapstructure:"schedule_cache_entries"`
	AliasCacheEntries    int `toml:"alias_cache_entries" mapstructure:"alias_cache_entries"`
}

// Validate performs validation on the storage configuration
func (s *StorageConfig) Validate() error {
	backend := strings.ToLower(s.Backend)
	switch backend {
	case "pebble", "bbolt":
		if s.Path == "" {
			return fmt.Errorf("path is required for backend %s", backend)
		}
	case "memory":
	default:
		return fmt.Errorf("invalid backend: %s (valid: pebble, bbolt, memory)", s.Backend)
	}
	s.Backend = backend

	switch s.Compression {
	case "lz4", "none":
	default:
		return fmt.Errorf("invalid compression: %s (valid: lz4, none)", s.Compression)
	}

	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative, got %d", s.CacheSize)
	}
	if s.ScheduleCacheEntries < 1 || s.AliasCacheEntries < 1 {
		return fmt.Errorf("cache entries must be at least 1")
	}
	return nil
}
