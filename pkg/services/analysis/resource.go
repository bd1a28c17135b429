package analysis

import (
	"context"
	"strings"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/rs/zerolog"
)

const overprovisionedCPULimit = 30.0

// largeSizeMarkers flag instance size classes big enough to be worth a
// downsize review.
var largeSizeMarkers = []string{"xlarge", "2xlarge", "4xlarge", "8xlarge"}

// ResourceAnalyzerSettings contains the configurable thresholds for waste
// classification.
type ResourceAnalyzerSettings struct {
	// CPUThreshold is the CPU percentage below which a resource is
	// considered underutilized.
	CPUThreshold float64
	// IdleDays is reserved for future age-based idle detection; the current
	// categorization does not consume it.
	IdleDays int
}

func DefaultResourceAnalyzerSettings() ResourceAnalyzerSettings {
	return ResourceAnalyzerSettings{
		CPUThreshold: 10.0,
		IdleDays:     7,
	}
}

// ResourceAnalyzer classifies resources into waste categories. Categories
// are non-exclusive and every rule treats missing data as "does not match",
// never as a failure: a malformed resource can not error the batch.
type ResourceAnalyzer struct {
	settings ResourceAnalyzerSettings
}

func NewResourceAnalyzer(settings ResourceAnalyzerSettings) *ResourceAnalyzer {
	return &ResourceAnalyzer{settings: settings}
}

func (a *ResourceAnalyzer) Analyze(ctx context.Context, resources []domain.Resource) domain.ResourceAnalysis {
	logger := zerolog.Ctx(ctx)
	logger.Info().Int("resources", len(resources)).Msg("analyzing resources")

	result := domain.ResourceAnalysis{
		TotalResources:     len(resources),
		Unused:             []domain.Resource{},
		Underutilized:      []domain.Resource{},
		Overprovisioned:    []domain.Resource{},
		Idle:               []domain.Resource{},
		ResourcesByType:    map[string]int{},
		AverageUtilization: map[string]float64{},
	}

	cpuSums := map[string]float64{}
	cpuCounts := map[string]int{}

	for _, r := range resources {
		result.ResourcesByType[r.Type]++

		if isUnused(r) {
			result.Unused = append(result.Unused, r)
		}
		if a.isUnderutilized(r) {
			result.Underutilized = append(result.Underutilized, r)
		}
		if isOverprovisioned(r) {
			result.Overprovisioned = append(result.Overprovisioned, r)
		}
		// Same predicate as the zero-utilization unused rule; the two lists
		// are kept separate on purpose because downstream generators consume
		// them independently.
		if hasZeroUtilization(r) {
			result.Idle = append(result.Idle, r)
		}

		if r.Utilization != nil {
			cpuSums[r.Type] += cpuPercent(r)
			cpuCounts[r.Type]++
		}
	}

	for resourceType, count := range cpuCounts {
		result.AverageUtilization[resourceType] = cpuSums[resourceType] / float64(count)
	}

	logger.Debug().
		Int("unused", len(result.Unused)).
		Int("underutilized", len(result.Underutilized)).
		Int("overprovisioned", len(result.Overprovisioned)).
		Int("idle", len(result.Idle)).
		Msg("resource classification complete")

	return result
}

func isUnused(r domain.Resource) bool {
	if hasInactiveState(r) {
		return true
	}
	return hasZeroUtilization(r)
}

func hasInactiveState(r domain.Resource) bool {
	if r.Metadata == nil {
		return false
	}
	for _, key := range []string{"state", "status"} {
		switch strings.ToLower(r.Metadata[key]) {
		case "stopped", "terminated", "deallocated":
			return true
		}
	}
	return false
}

// hasZeroUtilization reports whether a resource reported metrics and showed
// no activity at all. A metric missing from a present report counts as zero:
// compute providers report only CPU and serverless providers only
// invocations, and either kind must be able to match.
func hasZeroUtilization(r domain.Resource) bool {
	u := r.Utilization
	if u == nil {
		return false
	}
	if u.CPUPercent != nil && *u.CPUPercent != 0 {
		return false
	}
	if u.InvocationCount != nil && *u.InvocationCount != 0 {
		return false
	}
	return true
}

func (a *ResourceAnalyzer) isUnderutilized(r domain.Resource) bool {
	u := r.Utilization
	if u == nil || u.CPUPercent == nil {
		return false
	}
	// Strict lower bound: zero-utilization resources belong to Unused/Idle,
	// not here.
	return *u.CPUPercent > 0 && *u.CPUPercent < a.settings.CPUThreshold
}

func isOverprovisioned(r domain.Resource) bool {
	u := r.Utilization
	if u == nil || u.CPUPercent == nil || *u.CPUPercent >= overprovisionedCPULimit {
		return false
	}
	size, ok := sizeDescriptor(r)
	if !ok {
		return false
	}
	lower := strings.ToLower(size)
	for _, marker := range largeSizeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// sizeDescriptor resolves the instance size class from provider metadata,
// checking the AWS, Azure and GCP keys in that precedence.
func sizeDescriptor(r domain.Resource) (string, bool) {
	if r.Metadata == nil {
		return "", false
	}
	for _, key := range []string{"instance_type", "vm_size", "machine_type"} {
		if v := r.Metadata[key]; v != "" {
			return v, true
		}
	}
	return "", false
}

func cpuPercent(r domain.Resource) float64 {
	if r.Utilization == nil || r.Utilization.CPUPercent == nil {
		return 0
	}
	return *r.Utilization.CPUPercent
}
