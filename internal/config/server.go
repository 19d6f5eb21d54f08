package config

import (
	"fmt"
	"net"
	"time"
)

// ServerConfig represents the [server] section
type ServerConfig struct {
	Bind            string        `toml:"bind" mapstructure:"bind"`
	Port            int           `toml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// Validate performs validation on the server configuration
func (s *ServerConfig) Validate() error {
	if s.Bind != "" && net.ParseIP(s.Bind) == nil && s.Bind != "localhost" {
		return fmt.Errorf("invalid bind address: %s", s.Bind)
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.MaxBodyBytes < 1 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", s.MaxBodyBytes)
	}
	return nil
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level string `toml:"level" mapstructure:"level"`
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	switch l.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
}
