package actions

import (
	"context"
	"fmt"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/rs/zerolog"
)

const (
	// defaultStopExpression keeps non-production workloads off outside
	// working hours.
	defaultStopExpression = "weekends and off-hours"
	// coldStorageTier is the tier storage recommendations transition to.
	coldStorageTier = "glacier"
)

// ApplyResult summarizes the outcome of applying one recommendation.
type ApplyResult struct {
	RecommendationType string   `json:"recommendation_type"`
	DryRun             bool     `json:"dry_run"`
	Processed          int      `json:"processed"`
	Succeeded          int      `json:"succeeded"`
	Failed             int      `json:"failed"`
	Errors             []string `json:"errors,omitempty"`
	ScheduleID         string   `json:"schedule_id,omitempty"`
}

// Downscaler turns optimization recommendations into provider calls. With
// DryRun set it reports what would happen without touching any resource.
type Downscaler struct {
	provider  provider.Provider
	scheduler *Scheduler
	dryRun    bool
}

func NewDownscaler(p provider.Provider, scheduler *Scheduler, dryRun bool) *Downscaler {
	return &Downscaler{
		provider:  p,
		scheduler: scheduler,
		dryRun:    dryRun,
	}
}

// Apply executes a single recommendation. Individual resource failures are
// collected rather than aborting the batch.
func (d *Downscaler) Apply(ctx context.Context, rec domain.OptimizationRecommendation) (ApplyResult, error) {
	switch rec.Type {
	case domain.RecommendationTerminateUnused:
		return d.applyPerResource(ctx, rec, d.provider.TerminateResource), nil
	case domain.RecommendationStopIdle:
		return d.applyPerResource(ctx, rec, d.provider.StopResource), nil
	case domain.RecommendationScheduleStop:
		return d.applySchedule(ctx, rec)
	case domain.RecommendationMoveStorageTier:
		return d.applyStorageTier(ctx, rec)
	default:
		return ApplyResult{}, fmt.Errorf("recommendation type %q cannot be applied automatically", rec.Type)
	}
}

// ApplyAll applies every recommendation in order, skipping types that have no
// automatic action.
func (d *Downscaler) ApplyAll(ctx context.Context, recs []domain.OptimizationRecommendation) []ApplyResult {
	logger := zerolog.Ctx(ctx)

	results := make([]ApplyResult, 0, len(recs))
	for _, rec := range recs {
		result, err := d.Apply(ctx, rec)
		if err != nil {
			logger.Warn().Err(err).Str("type", rec.Type).Msg("skipping recommendation")
			continue
		}
		results = append(results, result)
	}
	return results
}

func (d *Downscaler) applyPerResource(ctx context.Context, rec domain.OptimizationRecommendation, action func(context.Context, string) error) ApplyResult {
	logger := zerolog.Ctx(ctx)
	result := ApplyResult{RecommendationType: rec.Type, DryRun: d.dryRun}

	for _, resourceID := range rec.ResourceIDs {
		result.Processed++

		if d.dryRun {
			logger.Info().
				Str("type", rec.Type).
				Str("resource", resourceID).
				Msg("dry run, no action taken")
			result.Succeeded++
			continue
		}

		if err := action(ctx, resourceID); err != nil {
			logger.Error().Err(err).Str("resource", resourceID).Msg("action failed")
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", resourceID, err))
			continue
		}
		result.Succeeded++
	}

	return result
}

func (d *Downscaler) applySchedule(ctx context.Context, rec domain.OptimizationRecommendation) (ApplyResult, error) {
	if d.scheduler == nil {
		return ApplyResult{}, fmt.Errorf("no scheduler configured")
	}

	result := ApplyResult{
		RecommendationType: rec.Type,
		DryRun:             d.dryRun,
		Processed:          len(rec.ResourceIDs),
	}

	if d.dryRun {
		zerolog.Ctx(ctx).Info().
			Str("type", rec.Type).
			Int("resources", result.Processed).
			Msg("dry run, schedule not created")
		result.Succeeded = result.Processed
		return result, nil
	}

	expression := defaultStopExpression
	if s, ok := rec.Details["schedule"].(string); ok && s != "" {
		expression = s
	}

	schedule, err := d.scheduler.ScheduleStop(ctx, nonProductionTagFilter(), expression, "UTC")
	if err != nil {
		return ApplyResult{}, fmt.Errorf("failed to create stop schedule: %w", err)
	}

	result.Succeeded = result.Processed
	result.ScheduleID = schedule.ID
	return result, nil
}

func (d *Downscaler) applyStorageTier(ctx context.Context, rec domain.OptimizationRecommendation) (ApplyResult, error) {
	lifecycler, ok := d.provider.(provider.StorageLifecycler)
	if !ok {
		return ApplyResult{}, fmt.Errorf("provider %q does not support storage tier transitions", d.provider.Name())
	}

	manager := NewLifecycleManager(lifecycler, d.dryRun)
	return manager.MoveToColdTier(ctx, rec), nil
}

// nonProductionTagFilter matches the environments the optimizer considers
// safe to stop automatically.
func nonProductionTagFilter() map[string]string {
	return map[string]string{"environment": "non-production"}
}
