package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	highPrioritySavings = 500.0

	// Assumed saving ratios for actions that keep the resource around in
	// some form. These are heuristic estimates, not derived from actual
	// target pricing.
	stopIdleSavingRatio     = 0.7
	downsizeSavingRatio     = 0.4
	scheduleStopSavingRatio = 0.3
	storageTierSavingRatio  = 0.5

	largeStorageGB = 100.0
)

// lowRiskTerminationTypes are compute families where terminating a stopped
// or idle instance is routine.
var lowRiskTerminationTypes = map[string]bool{
	domain.ResourceComputeInstance: true,
	domain.ResourceVirtualMachine:  true,
	domain.ResourceManagedCompute:  true,
}

var storageTypes = map[string]bool{
	domain.ResourceObjectStorage:  true,
	domain.ResourceStorageAccount: true,
	domain.ResourceCloudStorage:   true,
}

// OptimizerSettings configures recommendation filtering.
type OptimizerSettings struct {
	// SavingsThreshold is the minimum estimated monthly savings for a
	// recommendation to be surfaced.
	SavingsThreshold float64
}

func DefaultOptimizerSettings() OptimizerSettings {
	return OptimizerSettings{SavingsThreshold: 50.0}
}

// Optimizer turns analysis results into prioritized optimization
// recommendations. It is a stateless transform: grouping maps built during a
// pass are transient and nothing is retained across calls.
type Optimizer struct {
	settings OptimizerSettings
}

func NewOptimizer(settings OptimizerSettings) *Optimizer {
	return &Optimizer{settings: settings}
}

// Recommendations runs the five generators in a fixed order, filters the
// union by the savings threshold and sorts it descending by estimated
// savings (stable: equal values keep generation order).
//
// "Stop idle" and "schedule stop" can cover the same resources; both are
// independent heuristic estimates and are deliberately not reconciled.
func (o *Optimizer) Recommendations(
	ctx context.Context,
	costAnalysis domain.CostAnalysis,
	resourceAnalysis domain.ResourceAnalysis,
	resources []domain.Resource,
) []domain.OptimizationRecommendation {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("generating optimization recommendations")

	var recs []domain.OptimizationRecommendation
	recs = append(recs, o.recommendTerminateUnused(resourceAnalysis.Unused)...)
	recs = append(recs, o.recommendStopIdle(resourceAnalysis.Idle)...)
	recs = append(recs, o.recommendDownsize(resourceAnalysis.Overprovisioned)...)
	recs = append(recs, o.recommendScheduleStop(resources)...)
	recs = append(recs, o.recommendMoveStorage(resources)...)

	filtered := recs[:0]
	for _, rec := range recs {
		if rec.EstimatedMonthlySavings >= o.settings.SavingsThreshold {
			filtered = append(filtered, rec)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].EstimatedMonthlySavings > filtered[j].EstimatedMonthlySavings
	})

	logger.Info().Int("recommendations", len(filtered)).Msg("recommendations generated")
	return filtered
}

func (o *Optimizer) recommendTerminateUnused(unused []domain.Resource) []domain.OptimizationRecommendation {
	if len(unused) == 0 {
		return nil
	}

	byType := groupBy(unused, func(r domain.Resource) string { return r.Type })

	var recs []domain.OptimizationRecommendation
	for _, resourceType := range sortedKeys(byType) {
		group := byType[resourceType]
		savings := totalCost(group)
		if savings < o.settings.SavingsThreshold {
			continue
		}

		priority := domain.PriorityMedium
		if savings > highPrioritySavings {
			priority = domain.PriorityHigh
		}
		risk := domain.RiskMedium
		if lowRiskTerminationTypes[resourceType] {
			risk = domain.RiskLow
		}

		resourceDetails := make([]map[string]any, 0, len(group))
		for _, r := range group {
			resourceDetails = append(resourceDetails, map[string]any{
				"id":     r.ID,
				"cost":   r.MonthlyCost,
				"region": r.Region,
			})
		}

		recs = append(recs, domain.OptimizationRecommendation{
			Title:                   fmt.Sprintf("Terminate Unused %s Resources", resourceType),
			Description:             fmt.Sprintf("Found %d unused %s resources that can be terminated", len(group), resourceType),
			Type:                    domain.RecommendationTerminateUnused,
			Priority:                priority,
			EstimatedMonthlySavings: savings,
			Action:                  fmt.Sprintf("Terminate %d unused %s resources", len(group), resourceType),
			ResourceIDs:             resourceIDs(group),
			Details: map[string]any{
				"resource_type": resourceType,
				"count":         len(group),
				"resources":     resourceDetails,
			},
			RiskLevel: risk,
		})
	}

	return recs
}

func (o *Optimizer) recommendStopIdle(idle []domain.Resource) []domain.OptimizationRecommendation {
	nonProd := filterNonProduction(idle)
	if len(nonProd) == 0 {
		return nil
	}

	savings := totalCost(nonProd) * stopIdleSavingRatio
	if savings < o.settings.SavingsThreshold {
		return nil
	}

	return []domain.OptimizationRecommendation{{
		Title:                   "Stop Idle Development/Test Resources",
		Description:             fmt.Sprintf("Found %d idle non-production resources", len(nonProd)),
		Type:                    domain.RecommendationStopIdle,
		Priority:                domain.PriorityMedium,
		EstimatedMonthlySavings: savings,
		Action:                  fmt.Sprintf("Stop %d idle resources", len(nonProd)),
		ResourceIDs:             resourceIDs(nonProd),
		Details: map[string]any{
			"count":     len(nonProd),
			"resources": resourceIDs(nonProd),
		},
		RiskLevel: domain.RiskLow,
	}}
}

func (o *Optimizer) recommendDownsize(overprovisioned []domain.Resource) []domain.OptimizationRecommendation {
	if len(overprovisioned) == 0 {
		return nil
	}

	bySize := groupBy(overprovisioned, func(r domain.Resource) string {
		if size, ok := sizeDescriptor(r); ok {
			return size
		}
		return "unknown"
	})

	var recs []domain.OptimizationRecommendation
	for _, size := range sortedKeys(bySize) {
		group := bySize[size]
		savings := totalCost(group) * downsizeSavingRatio

		recs = append(recs, domain.OptimizationRecommendation{
			Title:                   fmt.Sprintf("Downsize Over-provisioned Resources (%s)", size),
			Description:             fmt.Sprintf("Found %d resources that can be downsized", len(group)),
			Type:                    domain.RecommendationDownsize,
			Priority:                domain.PriorityMedium,
			EstimatedMonthlySavings: savings,
			Action:                  fmt.Sprintf("Downsize %d resources from %s to smaller instance types", len(group), size),
			ResourceIDs:             resourceIDs(group),
			Details: map[string]any{
				"current_instance_type": size,
				"count":                 len(group),
				"resources":             resourceIDs(group),
			},
			RiskLevel: domain.RiskMedium,
		})
	}

	return recs
}

func (o *Optimizer) recommendScheduleStop(resources []domain.Resource) []domain.OptimizationRecommendation {
	nonProd := filterNonProduction(resources)
	if len(nonProd) == 0 {
		return nil
	}

	savings := totalCost(nonProd) * scheduleStopSavingRatio

	return []domain.OptimizationRecommendation{{
		Title:                   "Schedule Stop for Non-Critical Environments",
		Description:             fmt.Sprintf("Schedule automatic stop for %d non-production resources during off-hours", len(nonProd)),
		Type:                    domain.RecommendationScheduleStop,
		Priority:                domain.PriorityLow,
		EstimatedMonthlySavings: savings,
		Action:                  fmt.Sprintf("Schedule stop for %d resources during weekends/off-hours", len(nonProd)),
		ResourceIDs:             resourceIDs(nonProd),
		Details: map[string]any{
			"count":     len(nonProd),
			"schedule":  "weekends and off-hours",
			"resources": resourceIDs(nonProd),
		},
		RiskLevel: domain.RiskLow,
	}}
}

func (o *Optimizer) recommendMoveStorage(resources []domain.Resource) []domain.OptimizationRecommendation {
	var large []domain.Resource
	for _, r := range resources {
		if storageTypes[r.Type] && storageSizeGB(r) > largeStorageGB {
			large = append(large, r)
		}
	}
	if len(large) == 0 {
		return nil
	}

	savings := totalCost(large) * storageTierSavingRatio

	return []domain.OptimizationRecommendation{{
		Title:                   "Move Storage to Cheaper Tiers",
		Description:             fmt.Sprintf("Move %d storage buckets to cheaper storage classes", len(large)),
		Type:                    domain.RecommendationMoveStorageTier,
		Priority:                domain.PriorityLow,
		EstimatedMonthlySavings: savings,
		Action:                  fmt.Sprintf("Move %d storage buckets to archive tier", len(large)),
		ResourceIDs:             resourceIDs(large),
		Details: map[string]any{
			"count":     len(large),
			"resources": resourceIDs(large),
		},
		RiskLevel: domain.RiskLow,
	}}
}

func groupBy(resources []domain.Resource, key func(domain.Resource) string) map[string][]domain.Resource {
	groups := make(map[string][]domain.Resource)
	for _, r := range resources {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

func totalCost(resources []domain.Resource) float64 {
	var total float64
	for _, r := range resources {
		total += r.MonthlyCost
	}
	return total
}

func resourceIDs(resources []domain.Resource) []string {
	ids := make([]string, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}
	return ids
}
