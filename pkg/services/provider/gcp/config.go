package gcp

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	ProjectID       string `mapstructure:"project_id" validate:"required"`
	BillingAccount  string `mapstructure:"billing_account"`
	CredentialsPath string `mapstructure:"credentials_path"`
	BillingDataset  string `mapstructure:"billing_dataset"`
}

const defaultBillingDataset = "billing_export"

func LoadConfig(profilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)
	v.SetDefault("gcp.billing_dataset", defaultBillingDataset)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	sub := v.Sub("gcp")
	if sub == nil {
		return nil, fmt.Errorf("config file has no gcp section")
	}

	var cfg Config
	if err := sub.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse gcp config: %w", err)
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("gcp project_id is required")
	}
	return &cfg, nil
}
