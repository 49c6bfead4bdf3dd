package store

import (
	"time"

	"github.com/rs/zerolog"
)

// Config holds configuration for the engine components.
type Config struct {
	// MaxRetries bounds the optimistic retry loop on Apply and Delete.
	// Default: 3
	MaxRetries int

	// UnionTTL is the best-effort expiry attached to ephemeral union sets
	// created by wildcard search. Unions are also deleted explicitly when the
	// query returns; the TTL only covers a client that dies mid-query.
	// Default: 60s
	UnionTTL time.Duration

	// ScanCount is the COUNT hint for index key scans during wildcard search.
	// Default: 1000
	ScanCount int64

	// Logger receives structured operation logs. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		UnionTTL:   60 * time.Second,
		ScanCount:  1000,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.MaxRetries < 1 {
		c.MaxRetries = 3
	}
	if c.UnionTTL <= 0 {
		c.UnionTTL = 60 * time.Second
	}
	if c.ScanCount < 1 {
		c.ScanCount = 1000
	}
}

// logger resolves the configured logger, defaulting to a disabled one.
func (c Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return *c.Logger
	}
	return zerolog.Nop()
}
