package config

import (
	"strings"

	"github.com/circuithub/tmp-postgres/pkg/plan"
)

// ApplyDefaults fills unset fields with defaults. Explicit values are
// preserved; zero values are replaced.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyInstanceDefaults(&cfg.Instance)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	cfg.Level = strings.ToLower(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyInstanceDefaults(cfg *InstanceConfig) {
	if cfg.ConnectionTimeout == 0 {
		cfg.ConnectionTimeout = plan.DefaultConnectionTimeout
	}
}

// GetDefaultConfig returns a fully defaulted configuration.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
