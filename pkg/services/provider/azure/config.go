package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/spf13/viper"
)

type Config struct {
	SubscriptionID string `mapstructure:"subscription_id" validate:"required"`
	TenantID       string `mapstructure:"tenant_id"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
}

func LoadConfig(profilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	sub := v.Sub("azure")
	if sub == nil {
		return nil, fmt.Errorf("config file has no azure section")
	}

	var cfg Config
	if err := sub.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse azure config: %w", err)
	}
	if cfg.SubscriptionID == "" {
		return nil, fmt.Errorf("azure subscription_id is required")
	}
	return &cfg, nil
}

// credential builds a service-principal credential when the profile carries
// one, falling back to the default chain (env, managed identity, CLI).
func credential(cfg *Config) (azcore.TokenCredential, error) {
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.TenantID != "" {
		cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create client secret credential: %w", err)
		}
		return cred, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create default azure credential: %w", err)
	}
	return cred, nil
}
