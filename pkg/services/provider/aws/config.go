package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/viper"
)

const DefaultRegion = "us-east-1" // used when the profile does not pin one

type Config struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

func LoadConfig(profilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)
	v.SetDefault("aws.region", DefaultRegion)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	sub := v.Sub("aws")
	if sub == nil {
		return nil, fmt.Errorf("config file has no aws section")
	}

	var cfg Config
	if err := sub.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse aws config: %w", err)
	}
	return &cfg, nil
}

func loadSDKConfig(ctx context.Context, cfg *Config) (*awssdk.Config, error) {
	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithSharedConfigProfile(cfg.Profile),
		config.WithDefaultRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	// Test the credentials
	_, err = awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("invalid AWS credentials for profile %s: %w", cfg.Profile, err)
	}

	return &awsCfg, nil
}
