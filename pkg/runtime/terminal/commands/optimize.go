package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/finops-tools/cloudopt/pkg/services/actions"
	"github.com/finops-tools/cloudopt/pkg/services/analysis"
	"github.com/finops-tools/cloudopt/pkg/services/config"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/spf13/cobra"
)

type OptimizeCmd struct {
	profilePath string
	platform    string
	duration    int
	apply       bool
	registry    provider.Registry
}

func NewOptimizeCmd(registry provider.Registry) *cobra.Command {
	oc := &OptimizeCmd{registry: registry}
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Generate and optionally apply cost optimization recommendations",
		RunE:  oc.run,
	}

	cmd.Flags().StringVar(&oc.profilePath, "profile", "", "Path to the configuration profile")
	cmd.Flags().StringVar(&oc.platform, "provider", "", "Cloud provider to optimize (aws, azure, gcp)")
	cmd.Flags().IntVar(&oc.duration, "days", 30, "Number of days to analyze")
	cmd.Flags().BoolVar(&oc.apply, "apply", false, "Apply recommendations instead of only reporting them")

	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func (oc *OptimizeCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load(oc.profilePath)
	if err != nil {
		return err
	}

	p, err := oc.registry.Create(ctx, oc.platform, oc.profilePath)
	if err != nil {
		return fmt.Errorf("failed to create provider %q: %w", oc.platform, err)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -oc.duration)

	data, err := p.GetCostData(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch cost data: %w", err)
	}

	result := analysis.NewPipeline(cfg.Settings()).Run(ctx, data)
	if len(result.Recommendations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recommendations above the savings threshold.")
		return nil
	}

	// --apply still honors the profile's dry_run setting
	dryRun := cfg.Optimization.DryRun || !oc.apply
	downscaler := actions.NewDownscaler(p, actions.NewScheduler(), dryRun)

	results := downscaler.ApplyAll(ctx, result.Recommendations)
	for _, res := range results {
		mode := "applied"
		if res.DryRun {
			mode = "dry run"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d processed, %d succeeded, %d failed\n",
			res.RecommendationType, mode, res.Processed, res.Succeeded, res.Failed)
		for _, e := range res.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  error: %s\n", e)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Potential monthly savings: $%s\n",
		humanize.CommafWithDigits(result.TotalPotentialSavings(), 2))

	return nil
}
