package config

import (
	"fmt"
	"strings"

	"github.com/solatis/spellcore/internal/types"
	"github.com/spf13/viper"
)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "text": true}
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence; flags are
// applied by the caller on top of the returned value.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	def := DefaultConfig()
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.request_timeout", def.Server.RequestTimeout.String())
	v.SetDefault("server.max_batch_size", def.Server.MaxBatchSize)
	v.SetDefault("database.url", "")
	v.SetDefault("lookup.rule_set", "")
	v.SetDefault("lookup.forbidden_flags", []string{})
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	// Bind environment variables with SC_ prefix
	v.SetEnvPrefix("SC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var forbidden []types.Flag
	for _, f := range v.GetStringSlice("lookup.forbidden_flags") {
		forbidden = append(forbidden, types.Flag(strings.TrimSpace(f)))
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("server.host"),
			Port:           v.GetInt("server.port"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
			MaxBatchSize:   v.GetInt("server.max_batch_size"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		Lookup: LookupConfig{
			RuleSet:        v.GetString("lookup.rule_set"),
			ForbiddenFlags: forbidden,
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks port range, positive timeout and batch size, known log
// settings and non-empty forbidden flags. Callers re-run it after applying
// CLI flag overrides.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be positive, got %d", cfg.Server.MaxBatchSize)
	}
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}
	if !validLogFormats[cfg.Log.Format] {
		return fmt.Errorf("log format must be json or text, got %q", cfg.Log.Format)
	}
	for _, f := range cfg.Lookup.ForbiddenFlags {
		if f == "" {
			return fmt.Errorf("lookup.forbidden_flags: %w", types.ErrEmptyFlag)
		}
	}
	return nil
}
