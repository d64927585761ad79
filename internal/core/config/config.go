// Package config provides configuration management for spellcore commands.
package config

import (
	"time"

	"github.com/solatis/spellcore/internal/types"
)

// Config is the complete spellcore configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Lookup   LookupConfig
	Log      LogConfig
}

// ServerConfig holds configuration for the gRPC lookup service.
type ServerConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	MaxBatchSize   int // words per Check request
}

// DatabaseConfig selects the rule set store.
type DatabaseConfig struct {
	URL string // sqlite://path or postgres://...
}

// LookupConfig holds defaults applied to lookups that do not name them.
type LookupConfig struct {
	RuleSet        string       // rule set name or ID used when a request leaves it empty
	ForbiddenFlags []types.Flag // flags that disqualify a decomposition
}

// LogConfig selects the zap logger configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           50061,
			RequestTimeout: 10 * time.Second,
			MaxBatchSize:   1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Forbidden returns the configured forbidden flags as a set.
func (c LookupConfig) Forbidden() types.FlagSet {
	return types.NewFlagSet(c.ForbiddenFlags...)
}
