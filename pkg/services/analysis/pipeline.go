package analysis

import (
	"context"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
)

// Settings bundles the configuration surface consumed by the analysis
// pipeline. Values come from an external config loader.
type Settings struct {
	CPUThreshold     float64
	IdleDays         int
	SavingsThreshold float64
}

func DefaultSettings() Settings {
	return Settings{
		CPUThreshold:     10.0,
		IdleDays:         7,
		SavingsThreshold: 50.0,
	}
}

// Result is the full output of one analysis pass. All fields are fresh
// value objects owned by the caller.
type Result struct {
	CostAnalysis     domain.CostAnalysis
	ResourceAnalysis domain.ResourceAnalysis
	Recommendations  []domain.OptimizationRecommendation
}

// TotalPotentialSavings sums the estimated savings over all surfaced
// recommendations. Overlapping recommendation types are independent
// estimates, so this is an upper bound, not a guaranteed figure.
func (r Result) TotalPotentialSavings() float64 {
	var total float64
	for _, rec := range r.Recommendations {
		total += rec.EstimatedMonthlySavings
	}
	return total
}

// Pipeline composes the cost analyzer, resource analyzer and optimizer into
// one deterministic pass over a provider snapshot. A pipeline holds no
// mutable state and may be shared across goroutines, one snapshot per call.
type Pipeline struct {
	costs     *CostAnalyzer
	resources *ResourceAnalyzer
	optimizer *Optimizer
}

func NewPipeline(settings Settings) *Pipeline {
	return &Pipeline{
		costs: NewCostAnalyzer(),
		resources: NewResourceAnalyzer(ResourceAnalyzerSettings{
			CPUThreshold: settings.CPUThreshold,
			IdleDays:     settings.IdleDays,
		}),
		optimizer: NewOptimizer(OptimizerSettings{
			SavingsThreshold: settings.SavingsThreshold,
		}),
	}
}

func (p *Pipeline) Run(ctx context.Context, data domain.CostData) Result {
	costAnalysis := p.costs.Analyze(ctx, data)
	resourceAnalysis := p.resources.Analyze(ctx, data.Resources)
	recommendations := p.optimizer.Recommendations(ctx, costAnalysis, resourceAnalysis, data.Resources)

	return Result{
		CostAnalysis:     costAnalysis,
		ResourceAnalysis: resourceAnalysis,
		Recommendations:  recommendations,
	}
}
