package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPipeline(t *testing.T, resources []domain.Resource, threshold float64) Result {
	t.Helper()

	settings := DefaultSettings()
	settings.SavingsThreshold = threshold
	pipeline := NewPipeline(settings)

	var total float64
	for _, r := range resources {
		total += r.MonthlyCost
	}

	return pipeline.Run(context.Background(), domain.CostData{
		PeriodStart:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalCost:      total,
		CostsByService: map[string]float64{"compute": total},
		CostsByRegion:  map[string]float64{"us-east-1": total},
		Resources:      resources,
	})
}

func TestOptimizer_TerminateUnused(t *testing.T) {
	t.Run("single stopped instance", func(t *testing.T) {
		result := runPipeline(t, []domain.Resource{{
			ID:          "i-1",
			Type:        domain.ResourceComputeInstance,
			Region:      "us-east-1",
			MonthlyCost: 60,
			Metadata:    map[string]string{"state": "stopped"},
		}}, 50)

		require.Len(t, result.Recommendations, 1)
		rec := result.Recommendations[0]
		assert.Equal(t, domain.RecommendationTerminateUnused, rec.Type)
		assert.Equal(t, 60.0, rec.EstimatedMonthlySavings)
		assert.Equal(t, domain.PriorityMedium, rec.Priority) // 60 <= 500
		assert.Equal(t, domain.RiskLow, rec.RiskLevel)
		assert.Equal(t, []string{"i-1"}, rec.ResourceIDs)
		assert.Equal(t, domain.ResourceComputeInstance, rec.Details["resource_type"])
		assert.Equal(t, 1, rec.Details["count"])
	})

	t.Run("high priority above 500", func(t *testing.T) {
		result := runPipeline(t, []domain.Resource{{
			ID:          "i-1",
			Type:        domain.ResourceComputeInstance,
			MonthlyCost: 900,
			Metadata:    map[string]string{"state": "terminated"},
		}}, 50)

		require.Len(t, result.Recommendations, 1)
		assert.Equal(t, domain.PriorityHigh, result.Recommendations[0].Priority)
	})

	t.Run("medium risk for non-compute types", func(t *testing.T) {
		result := runPipeline(t, []domain.Resource{{
			ID:          "db-1",
			Type:        domain.ResourceManagedDatabase,
			MonthlyCost: 200,
			Metadata:    map[string]string{"status": "stopped"},
		}}, 50)

		require.Len(t, result.Recommendations, 1)
		assert.Equal(t, domain.RiskMedium, result.Recommendations[0].RiskLevel)
	})

	t.Run("group below threshold is skipped", func(t *testing.T) {
		result := runPipeline(t, []domain.Resource{{
			ID:          "i-1",
			Type:        domain.ResourceComputeInstance,
			MonthlyCost: 20,
			Metadata:    map[string]string{"state": "stopped"},
		}}, 50)

		assert.Empty(t, result.Recommendations)
	})
}

func TestOptimizer_StopIdleAndScheduleStop(t *testing.T) {
	// An idle dev-tagged resource is covered by stop-idle, schedule-stop and
	// terminate-unused at once; the overlap is deliberate.
	resources := []domain.Resource{{
		ID:          "i-dev",
		Type:        domain.ResourceComputeInstance,
		MonthlyCost: 100,
		Tags:        map[string]string{"environment": "dev"},
		Utilization: utilization(0, 0),
	}}

	result := runPipeline(t, resources, 50)

	assert.ElementsMatch(t,
		[]string{"i-dev"},
		resourceIDs(result.ResourceAnalysis.Idle))
	assert.ElementsMatch(t,
		[]string{"i-dev"},
		resourceIDs(result.ResourceAnalysis.Unused))

	byType := map[string]domain.OptimizationRecommendation{}
	for _, rec := range result.Recommendations {
		byType[rec.Type] = rec
	}

	stopIdle, ok := byType[domain.RecommendationStopIdle]
	require.True(t, ok, "expected a stop-idle recommendation")
	assert.InDelta(t, 70.0, stopIdle.EstimatedMonthlySavings, 1e-9)
	assert.Equal(t, domain.PriorityMedium, stopIdle.Priority)
	assert.Equal(t, domain.RiskLow, stopIdle.RiskLevel)

	// 30% of 100 is below the threshold, so schedule-stop is filtered out.
	_, ok = byType[domain.RecommendationScheduleStop]
	assert.False(t, ok)
}

func TestOptimizer_ScheduleStopCoversAllNonProduction(t *testing.T) {
	// Schedule-stop scans the full list, not just idle resources.
	resources := []domain.Resource{
		{
			ID:          "i-busy-dev",
			Type:        domain.ResourceComputeInstance,
			MonthlyCost: 300,
			Tags:        map[string]string{"Environment": "Staging"},
			Utilization: utilization(75, 0),
		},
		{
			ID:          "i-prod",
			Type:        domain.ResourceComputeInstance,
			MonthlyCost: 400,
			Tags:        map[string]string{"environment": "production"},
			Utilization: utilization(80, 0),
		},
	}

	result := runPipeline(t, resources, 50)

	require.Len(t, result.Recommendations, 1)
	rec := result.Recommendations[0]
	assert.Equal(t, domain.RecommendationScheduleStop, rec.Type)
	assert.InDelta(t, 90.0, rec.EstimatedMonthlySavings, 1e-9) // 30% of 300
	assert.Equal(t, []string{"i-busy-dev"}, rec.ResourceIDs)
	assert.Equal(t, domain.PriorityLow, rec.Priority)
}

func TestOptimizer_Downsize(t *testing.T) {
	result := runPipeline(t, []domain.Resource{{
		ID:          "i-1",
		Type:        domain.ResourceComputeInstance,
		MonthlyCost: 200,
		Utilization: utilization(20, 0),
		Metadata:    map[string]string{"instance_type": "m5.4xlarge"},
	}}, 50)

	assert.ElementsMatch(t, []string{"i-1"}, resourceIDs(result.ResourceAnalysis.Overprovisioned))

	require.Len(t, result.Recommendations, 1)
	rec := result.Recommendations[0]
	assert.Equal(t, domain.RecommendationDownsize, rec.Type)
	assert.InDelta(t, 80.0, rec.EstimatedMonthlySavings, 1e-9) // 40% of 200
	assert.Equal(t, "m5.4xlarge", rec.Details["current_instance_type"])
	assert.Equal(t, domain.RiskMedium, rec.RiskLevel)
}

func TestOptimizer_MoveStorageTier(t *testing.T) {
	t.Run("large buckets recommended", func(t *testing.T) {
		result := runPipeline(t, []domain.Resource{
			{
				ID:          "bucket-big",
				Type:        domain.ResourceObjectStorage,
				MonthlyCost: 240,
				Metadata:    map[string]string{"size_gb": "512"},
			},
			{
				ID:          "bucket-small",
				Type:        domain.ResourceObjectStorage,
				MonthlyCost: 10,
				Metadata:    map[string]string{"size_gb": "20"},
			},
		}, 50)

		require.Len(t, result.Recommendations, 1)
		rec := result.Recommendations[0]
		assert.Equal(t, domain.RecommendationMoveStorageTier, rec.Type)
		assert.InDelta(t, 120.0, rec.EstimatedMonthlySavings, 1e-9) // 50% of 240
		assert.Equal(t, []string{"bucket-big"}, rec.ResourceIDs)
	})

	t.Run("non-storage types ignored", func(t *testing.T) {
		result := runPipeline(t, []domain.Resource{{
			ID:          "db-1",
			Type:        domain.ResourceManagedDatabase,
			MonthlyCost: 500,
			Metadata:    map[string]string{"size_gb": "900"},
		}}, 50)

		assert.Empty(t, result.Recommendations)
	})
}

func TestOptimizer_FilterAndSortInvariants(t *testing.T) {
	resources := []domain.Resource{
		{ID: "i-1", Type: domain.ResourceComputeInstance, MonthlyCost: 600, Metadata: map[string]string{"state": "stopped"}},
		{ID: "vm-1", Type: domain.ResourceVirtualMachine, MonthlyCost: 80, Metadata: map[string]string{"status": "deallocated"}},
		{ID: "i-2", Type: domain.ResourceComputeInstance, MonthlyCost: 400, Utilization: utilization(15, 0), Metadata: map[string]string{"instance_type": "c5.2xlarge"}},
		{ID: "i-3", Type: domain.ResourceComputeInstance, MonthlyCost: 250, Tags: map[string]string{"env": "qa"}, Utilization: utilization(0, 0)},
		{ID: "bucket-1", Type: domain.ResourceStorageAccount, MonthlyCost: 150, Metadata: map[string]string{"size_gb": "400"}},
	}

	result := runPipeline(t, resources, 60)

	require.NotEmpty(t, result.Recommendations)
	for i, rec := range result.Recommendations {
		assert.GreaterOrEqual(t, rec.EstimatedMonthlySavings, 60.0, "threshold invariant")
		assert.NotEmpty(t, rec.ResourceIDs)
		if i > 0 {
			assert.GreaterOrEqual(t,
				result.Recommendations[i-1].EstimatedMonthlySavings,
				rec.EstimatedMonthlySavings,
				"descending sort invariant")
		}
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	resources := []domain.Resource{
		{ID: "i-1", Type: domain.ResourceComputeInstance, MonthlyCost: 600, Metadata: map[string]string{"state": "stopped"}},
		{ID: "i-2", Type: domain.ResourceComputeInstance, MonthlyCost: 400, Utilization: utilization(15, 0), Metadata: map[string]string{"instance_type": "c5.2xlarge"}},
		{ID: "i-3", Type: domain.ResourceServerlessFunction, MonthlyCost: 120, Tags: map[string]string{"env": "test"}, Utilization: &domain.Utilization{InvocationCount: intPtr(0)}},
	}

	first := runPipeline(t, resources, 50)
	second := runPipeline(t, resources, 50)

	assert.Equal(t, first, second)
}
