package analysis

import (
	"context"
	"testing"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }

func utilization(cpu float64, invocations int64) *domain.Utilization {
	return &domain.Utilization{CPUPercent: floatPtr(cpu), InvocationCount: intPtr(invocations)}
}

func TestResourceAnalyzer_Unused(t *testing.T) {
	ctx := context.Background()
	analyzer := NewResourceAnalyzer(DefaultResourceAnalyzerSettings())

	tests := []struct {
		name     string
		resource domain.Resource
		unused   bool
	}{
		{
			name: "stopped state",
			resource: domain.Resource{
				ID: "i-1", Type: domain.ResourceComputeInstance,
				Metadata: map[string]string{"state": "stopped"},
			},
			unused: true,
		},
		{
			name: "deallocated status uppercase",
			resource: domain.Resource{
				ID: "vm-1", Type: domain.ResourceVirtualMachine,
				Metadata: map[string]string{"status": "Deallocated"},
			},
			unused: true,
		},
		{
			name: "zero cpu and zero invocations",
			resource: domain.Resource{
				ID: "i-2", Type: domain.ResourceComputeInstance,
				Utilization: utilization(0, 0),
			},
			unused: true,
		},
		{
			name: "zero cpu with unreported invocations",
			resource: domain.Resource{
				ID: "i-3", Type: domain.ResourceComputeInstance,
				Utilization: &domain.Utilization{CPUPercent: floatPtr(0)},
			},
			unused: true,
		},
		{
			name: "running with activity",
			resource: domain.Resource{
				ID: "i-4", Type: domain.ResourceComputeInstance,
				Metadata:    map[string]string{"state": "running"},
				Utilization: utilization(45, 0),
			},
			unused: false,
		},
		{
			name:     "no metadata and no utilization",
			resource: domain.Resource{ID: "i-5", Type: domain.ResourceComputeInstance},
			unused:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.Analyze(ctx, []domain.Resource{tt.resource})
			if tt.unused {
				require.Len(t, result.Unused, 1)
				assert.Equal(t, tt.resource.ID, result.Unused[0].ID)
			} else {
				assert.Empty(t, result.Unused)
			}
		})
	}
}

func TestResourceAnalyzer_Underutilized(t *testing.T) {
	ctx := context.Background()
	analyzer := NewResourceAnalyzer(DefaultResourceAnalyzerSettings())

	tests := []struct {
		name          string
		cpu           *float64
		underutilized bool
	}{
		{"below threshold", floatPtr(5), true},
		{"just under threshold", floatPtr(9.9), true},
		{"at threshold", floatPtr(10), false},
		{"zero is excluded by the strict lower bound", floatPtr(0), false},
		{"not reported", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.Resource{ID: "i-1", Type: domain.ResourceComputeInstance}
			if tt.cpu != nil {
				r.Utilization = &domain.Utilization{CPUPercent: tt.cpu}
			}

			result := analyzer.Analyze(ctx, []domain.Resource{r})
			if tt.underutilized {
				assert.Len(t, result.Underutilized, 1)
			} else {
				assert.Empty(t, result.Underutilized)
			}
		})
	}
}

func TestResourceAnalyzer_Overprovisioned(t *testing.T) {
	ctx := context.Background()
	analyzer := NewResourceAnalyzer(DefaultResourceAnalyzerSettings())

	tests := []struct {
		name            string
		cpu             float64
		metadata        map[string]string
		overprovisioned bool
	}{
		{"large aws instance under 30 percent", 20, map[string]string{"instance_type": "m5.4xlarge"}, true},
		{"large azure vm size", 10, map[string]string{"vm_size": "Standard_D8s_XLARGE"}, true},
		{"large gcp machine type", 25, map[string]string{"machine_type": "n2-2xlarge"}, true},
		{"small instance ignored", 5, map[string]string{"instance_type": "t3.micro"}, false},
		{"busy large instance ignored", 80, map[string]string{"instance_type": "m5.4xlarge"}, false},
		{"no size descriptor", 5, map[string]string{"state": "running"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.Resource{
				ID:          "i-1",
				Type:        domain.ResourceComputeInstance,
				Utilization: &domain.Utilization{CPUPercent: floatPtr(tt.cpu)},
				Metadata:    tt.metadata,
			}

			result := analyzer.Analyze(ctx, []domain.Resource{r})
			if tt.overprovisioned {
				assert.Len(t, result.Overprovisioned, 1)
			} else {
				assert.Empty(t, result.Overprovisioned)
			}
		})
	}
}

func TestResourceAnalyzer_IdleMatchesZeroUtilizationUnused(t *testing.T) {
	ctx := context.Background()
	analyzer := NewResourceAnalyzer(DefaultResourceAnalyzerSettings())

	resources := []domain.Resource{
		{ID: "idle-1", Type: domain.ResourceComputeInstance, Utilization: utilization(0, 0)},
		{ID: "idle-2", Type: domain.ResourceServerlessFunction, Utilization: &domain.Utilization{InvocationCount: intPtr(0)}},
		{ID: "busy", Type: domain.ResourceComputeInstance, Utilization: utilization(50, 0)},
		{ID: "stopped", Type: domain.ResourceComputeInstance, Metadata: map[string]string{"state": "stopped"}},
		{ID: "silent", Type: domain.ResourceObjectStorage},
	}

	result := analyzer.Analyze(ctx, resources)

	idleIDs := resourceIDs(result.Idle)
	assert.Equal(t, []string{"idle-1", "idle-2"}, idleIDs)

	// The Idle list equals the zero-utilization subset of Unused by
	// construction; "stopped" is unused by state only.
	var zeroUtilUnused []string
	for _, r := range result.Unused {
		if hasZeroUtilization(r) {
			zeroUtilUnused = append(zeroUtilUnused, r.ID)
		}
	}
	assert.Equal(t, idleIDs, zeroUtilUnused)
	assert.ElementsMatch(t, []string{"idle-1", "idle-2", "stopped"}, resourceIDs(result.Unused))
}

func TestResourceAnalyzer_AggregateStats(t *testing.T) {
	ctx := context.Background()
	analyzer := NewResourceAnalyzer(DefaultResourceAnalyzerSettings())

	resources := []domain.Resource{
		{ID: "i-1", Type: domain.ResourceComputeInstance, Utilization: utilization(40, 0)},
		{ID: "i-2", Type: domain.ResourceComputeInstance, Utilization: utilization(60, 0)},
		{ID: "i-3", Type: domain.ResourceComputeInstance}, // no metrics, excluded from the average
		{ID: "db-1", Type: domain.ResourceManagedDatabase, Utilization: utilization(10, 0)},
	}

	result := analyzer.Analyze(ctx, resources)

	assert.Equal(t, 4, result.TotalResources)
	assert.Equal(t, map[string]int{
		domain.ResourceComputeInstance: 3,
		domain.ResourceManagedDatabase: 1,
	}, result.ResourcesByType)
	assert.InDelta(t, 50.0, result.AverageUtilization[domain.ResourceComputeInstance], 1e-9)
	assert.InDelta(t, 10.0, result.AverageUtilization[domain.ResourceManagedDatabase], 1e-9)
}

func TestResourceAnalyzer_Idempotent(t *testing.T) {
	ctx := context.Background()
	analyzer := NewResourceAnalyzer(DefaultResourceAnalyzerSettings())

	resources := []domain.Resource{
		{ID: "i-1", Type: domain.ResourceComputeInstance, Utilization: utilization(0, 0), MonthlyCost: 60},
		{ID: "i-2", Type: domain.ResourceVirtualMachine, Metadata: map[string]string{"status": "deallocated"}, MonthlyCost: 90},
	}

	first := analyzer.Analyze(ctx, resources)
	second := analyzer.Analyze(ctx, resources)

	assert.Equal(t, first, second)
}
