package config

import (
	"fmt"

	"github.com/finops-tools/cloudopt/pkg/services/analysis"
	"github.com/spf13/viper"
)

// Analysis holds the classification thresholds.
type Analysis struct {
	CPUThreshold     float64 `mapstructure:"cpu_threshold"`
	IdleDays         int     `mapstructure:"idle_days"`
	SavingsThreshold float64 `mapstructure:"savings_threshold"`
}

// Optimization controls how recommendations are applied.
type Optimization struct {
	DryRun bool `mapstructure:"dry_run"`
}

// Config is the application profile. Provider sections in the same file are
// parsed separately by each provider's factory.
type Config struct {
	Analysis     Analysis     `mapstructure:"analysis"`
	Optimization Optimization `mapstructure:"optimization"`
}

// Load reads the profile at path. Missing sections fall back to defaults that
// match DefaultSettings on the analysis side and dry-run on the action side.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := analysis.DefaultSettings()
	v.SetDefault("analysis.cpu_threshold", defaults.CPUThreshold)
	v.SetDefault("analysis.idle_days", defaults.IdleDays)
	v.SetDefault("analysis.savings_threshold", defaults.SavingsThreshold)
	v.SetDefault("optimization.dry_run", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Settings converts the analysis section into analyzer settings.
func (c *Config) Settings() analysis.Settings {
	return analysis.Settings{
		CPUThreshold:     c.Analysis.CPUThreshold,
		IdleDays:         c.Analysis.IdleDays,
		SavingsThreshold: c.Analysis.SavingsThreshold,
	}
}
