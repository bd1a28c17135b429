package main

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"time"

	"github.com/finops-tools/cloudopt/pkg/server"
	"github.com/finops-tools/cloudopt/pkg/services/analysis"
	"github.com/finops-tools/cloudopt/pkg/services/config"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/finops-tools/cloudopt/pkg/services/provider/aws"
	"github.com/finops-tools/cloudopt/pkg/services/provider/azure"
	"github.com/finops-tools/cloudopt/pkg/services/provider/gcp"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the cloudopt web server",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultPath := fmt.Sprintf("%s/.cloudopt.yaml", usr.HomeDir)

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultPath,
		"Path to the configuration profile (default is $HOME/.cloudopt.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)

	registry := provider.NewRegistry(map[string]provider.Factory{
		"aws":   aws.Factory,
		"azure": azure.Factory,
		"gcp":   gcp.Factory,
	})

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(host, port),
		ProfilePath:     cfgPath,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Registry: registry,
			Pipeline: analysis.NewPipeline(cfg.Settings()),
		},
	})

	return api.Start()
}
