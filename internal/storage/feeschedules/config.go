package feeschedules

import (
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultCacheSize is the number of schedules kept in the read cache.
const DefaultCacheSize = 1024

// CacheObserver is told about read cache hits and misses.
type CacheObserver interface {
	CacheHit(store string)
	CacheMiss(store string)
}

// Config holds the settings of a Store.
type Config struct {
	CacheSize   int
	Compression string
	Logger      zerolog.Logger
	Observer    CacheObserver
}

// DefaultConfig returns the default store settings.
func DefaultConfig() *Config {
	return &Config{
		CacheSize:   DefaultCacheSize,
		Compression: "lz4",
		Logger:      zerolog.Nop(),
	}
}

// Validate checks the settings
func (c *Config) Validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.CacheSize)
	}
	return nil
}

// Option represents a functional option for configuring the Store.
type Option func(*Config)

// WithCacheSize sets the number of cached schedules.
func WithCacheSize(size int) Option {
	return func(c *Config) {
		c.CacheSize = size
	}
}

// WithCompression sets the compressor of stored blobs, "lz4" or "none".
func WithCompression(name string) Option {
	return func(c *Config) {
		c.Compression = name
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithCacheObserver(obs CacheObserver) Option {
	return func(c *Config) {
		c.Observer = obs
	}
}
