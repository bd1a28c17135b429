package actions

import (
	"context"
	"fmt"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/rs/zerolog"
)

// LifecycleManager moves storage resources to cheaper access tiers.
type LifecycleManager struct {
	lifecycler provider.StorageLifecycler
	dryRun     bool
}

func NewLifecycleManager(lifecycler provider.StorageLifecycler, dryRun bool) *LifecycleManager {
	return &LifecycleManager{
		lifecycler: lifecycler,
		dryRun:     dryRun,
	}
}

// MoveToColdTier transitions every resource named by the recommendation to
// the cold storage tier.
func (m *LifecycleManager) MoveToColdTier(ctx context.Context, rec domain.OptimizationRecommendation) ApplyResult {
	logger := zerolog.Ctx(ctx)
	result := ApplyResult{RecommendationType: rec.Type, DryRun: m.dryRun}

	for _, resourceID := range rec.ResourceIDs {
		result.Processed++

		if m.dryRun {
			logger.Info().
				Str("resource", resourceID).
				Str("target_tier", coldStorageTier).
				Msg("dry run, tier unchanged")
			result.Succeeded++
			continue
		}

		if err := m.lifecycler.MoveStorageTier(ctx, resourceID, coldStorageTier); err != nil {
			logger.Error().Err(err).Str("resource", resourceID).Msg("tier transition failed")
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", resourceID, err))
			continue
		}
		result.Succeeded++
	}

	return result
}
