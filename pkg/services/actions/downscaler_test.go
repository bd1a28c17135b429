package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockProvider) GetCostData(ctx context.Context, start, end time.Time) (domain.CostData, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(domain.CostData), args.Error(1)
}

func (m *mockProvider) StopResource(ctx context.Context, resourceID string) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (m *mockProvider) TerminateResource(ctx context.Context, resourceID string) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

type mockLifecycleProvider struct {
	mockProvider
}

func (m *mockLifecycleProvider) MoveStorageTier(ctx context.Context, resourceID, targetTier string) error {
	args := m.Called(ctx, resourceID, targetTier)
	return args.Error(0)
}

func TestDownscaler_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("terminates unused resources", func(t *testing.T) {
		p := &mockProvider{}
		p.On("TerminateResource", ctx, "i-1").Return(nil)
		p.On("TerminateResource", ctx, "i-2").Return(nil)

		d := NewDownscaler(p, NewScheduler(), false)
		result, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationTerminateUnused,
			ResourceIDs: []string{"i-1", "i-2"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 0, result.Failed)
		p.AssertExpectations(t)
	})

	t.Run("stops idle resources", func(t *testing.T) {
		p := &mockProvider{}
		p.On("StopResource", ctx, "i-idle").Return(nil)

		d := NewDownscaler(p, NewScheduler(), false)
		result, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationStopIdle,
			ResourceIDs: []string{"i-idle"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Succeeded)
		p.AssertExpectations(t)
	})

	t.Run("collects per-resource failures", func(t *testing.T) {
		p := &mockProvider{}
		p.On("TerminateResource", ctx, "i-ok").Return(nil)
		p.On("TerminateResource", ctx, "i-bad").Return(errors.New("access denied"))

		d := NewDownscaler(p, NewScheduler(), false)
		result, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationTerminateUnused,
			ResourceIDs: []string{"i-ok", "i-bad"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "i-bad")
	})

	t.Run("dry run makes no provider calls", func(t *testing.T) {
		p := &mockProvider{}

		d := NewDownscaler(p, NewScheduler(), true)
		result, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationTerminateUnused,
			ResourceIDs: []string{"i-1", "i-2"},
		})

		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 2, result.Succeeded)
		p.AssertNotCalled(t, "TerminateResource", mock.Anything, mock.Anything)
	})

	t.Run("schedule-stop creates a stop schedule", func(t *testing.T) {
		p := &mockProvider{}
		scheduler := NewScheduler()

		d := NewDownscaler(p, scheduler, false)
		result, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationScheduleStop,
			ResourceIDs: []string{"i-dev-1", "i-dev-2"},
			Details:     map[string]any{"schedule": "weekends and off-hours"},
		})

		require.NoError(t, err)
		require.NotEmpty(t, result.ScheduleID)
		assert.Equal(t, 2, result.Processed)

		schedule, ok := scheduler.Get(result.ScheduleID)
		require.True(t, ok)
		assert.Equal(t, domain.ScheduleActionStop, schedule.Action)
		assert.Equal(t, "weekends and off-hours", schedule.Expression)
	})

	t.Run("schedule-stop dry run creates nothing", func(t *testing.T) {
		scheduler := NewScheduler()
		d := NewDownscaler(&mockProvider{}, scheduler, true)

		result, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationScheduleStop,
			ResourceIDs: []string{"i-dev-1"},
		})

		require.NoError(t, err)
		assert.Empty(t, result.ScheduleID)
		assert.Empty(t, scheduler.List())
	})

	t.Run("move-storage-tier requires lifecycle support", func(t *testing.T) {
		p := &mockProvider{}
		p.On("Name").Return("gcp")

		d := NewDownscaler(p, NewScheduler(), false)
		_, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationMoveStorageTier,
			ResourceIDs: []string{"bucket-1"},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not support storage tier")
	})

	t.Run("move-storage-tier transitions buckets", func(t *testing.T) {
		p := &mockLifecycleProvider{}
		p.On("MoveStorageTier", ctx, "bucket-1", coldStorageTier).Return(nil)

		d := NewDownscaler(p, NewScheduler(), false)
		result, err := d.Apply(ctx, domain.OptimizationRecommendation{
			Type:        domain.RecommendationMoveStorageTier,
			ResourceIDs: []string{"bucket-1"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Succeeded)
		p.AssertExpectations(t)
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		d := NewDownscaler(&mockProvider{}, NewScheduler(), false)
		_, err := d.Apply(ctx, domain.OptimizationRecommendation{Type: domain.RecommendationDownsize})
		require.Error(t, err)
	})
}

func TestDownscaler_ApplyAll(t *testing.T) {
	ctx := context.Background()

	p := &mockProvider{}
	p.On("TerminateResource", ctx, "i-1").Return(nil)

	d := NewDownscaler(p, NewScheduler(), false)
	results := d.ApplyAll(ctx, []domain.OptimizationRecommendation{
		{Type: domain.RecommendationTerminateUnused, ResourceIDs: []string{"i-1"}},
		{Type: domain.RecommendationDownsize, ResourceIDs: []string{"i-2"}},
	})

	// downsize has no automatic action and is skipped
	require.Len(t, results, 1)
	assert.Equal(t, domain.RecommendationTerminateUnused, results[0].RecommendationType)
	p.AssertExpectations(t)
}
