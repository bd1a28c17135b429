package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/finops-tools/cloudopt/pkg/runtime/terminal/export"
	"github.com/finops-tools/cloudopt/pkg/services/analysis"
	"github.com/finops-tools/cloudopt/pkg/services/config"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	profilePath string
	platform    string
	duration    int
	format      string
	registry    provider.Registry
	reporter    *export.Reporter
}

func NewAnalyzeCmd(registry provider.Registry, reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{registry: registry, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze cloud costs and resource utilization",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.profilePath, "profile", "", "Path to the configuration profile")
	cmd.Flags().StringVar(&ac.platform, "provider", "", "Cloud provider to analyze (aws, azure, gcp)")
	cmd.Flags().IntVar(&ac.duration, "days", 30, "Number of days to analyze")
	cmd.Flags().StringVar(&ac.format, "format", "text", "Report format (text, json, csv, html)")

	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load(ac.profilePath)
	if err != nil {
		return err
	}

	p, err := ac.registry.Create(ctx, ac.platform, ac.profilePath)
	if err != nil {
		return fmt.Errorf("failed to create provider %q: %w", ac.platform, err)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -ac.duration)

	data, err := p.GetCostData(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch cost data: %w", err)
	}

	result := analysis.NewPipeline(cfg.Settings()).Run(ctx, data)

	return ac.reporter.Handle(export.Report{
		Provider:    p.Name(),
		PeriodStart: start,
		PeriodEnd:   end,
		Result:      result,
	}, export.Format(ac.format))
}
