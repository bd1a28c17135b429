package adapters

import (
	"maps"
	"time"

	"github.com/finops-tools/cloudopt/pkg/models/api"
	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/finops-tools/cloudopt/pkg/services/analysis"
)

func MapPeriodToApi(start, end time.Time) api.TimePeriod {
	return api.TimePeriod{
		Start:    start,
		End:      end,
		Duration: int(end.Sub(start).Hours() / 24),
	}
}

func MapCostAnalysisDomainToApi(a domain.CostAnalysis) api.CostAnalysis {
	drivers := make([]api.CostDriver, 0, len(a.TopCostDrivers))
	for _, d := range a.TopCostDrivers {
		drivers = append(drivers, api.CostDriver{
			Service:    d.Service,
			Cost:       d.Cost,
			Percentage: d.Percentage,
		})
	}

	anomalies := make([]api.CostAnomaly, 0, len(a.Anomalies))
	for _, an := range a.Anomalies {
		anomalies = append(anomalies, api.CostAnomaly{
			Type:     an.Type,
			Severity: an.Severity,
			Message:  an.Message,
			Service:  an.Service,
			Value:    an.Value,
		})
	}

	return api.CostAnalysis{
		TotalCost:      a.TotalCost,
		CostsByService: maps.Clone(a.CostsByService),
		CostsByRegion:  maps.Clone(a.CostsByRegion),
		TopCostDrivers: drivers,
		CostTrend:      a.CostTrend,
		Anomalies:      anomalies,
	}
}

func MapResourceDomainToApi(r domain.Resource) api.Resource {
	var utilization map[string]float64
	if r.Utilization != nil {
		utilization = map[string]float64{}
		if r.Utilization.CPUPercent != nil {
			utilization["cpu_percent"] = *r.Utilization.CPUPercent
		}
		if r.Utilization.InvocationCount != nil {
			utilization["invocation_count"] = float64(*r.Utilization.InvocationCount)
		}
	}

	return api.Resource{
		ID:          r.ID,
		Type:        r.Type,
		Region:      r.Region,
		MonthlyCost: r.MonthlyCost,
		Tags:        maps.Clone(r.Tags),
		Metadata:    maps.Clone(r.Metadata),
		Utilization: utilization,
	}
}

func mapResourcesDomainToApi(resources []domain.Resource) []api.Resource {
	out := make([]api.Resource, 0, len(resources))
	for _, r := range resources {
		out = append(out, MapResourceDomainToApi(r))
	}
	return out
}

func MapResourceAnalysisDomainToApi(a domain.ResourceAnalysis) api.ResourceAnalysis {
	return api.ResourceAnalysis{
		TotalResources:     a.TotalResources,
		Unused:             mapResourcesDomainToApi(a.Unused),
		Underutilized:      mapResourcesDomainToApi(a.Underutilized),
		Overprovisioned:    mapResourcesDomainToApi(a.Overprovisioned),
		Idle:               mapResourcesDomainToApi(a.Idle),
		ResourcesByType:    maps.Clone(a.ResourcesByType),
		AverageUtilization: maps.Clone(a.AverageUtilization),
	}
}

func MapRecommendationDomainToApi(rec domain.OptimizationRecommendation) api.Recommendation {
	return api.Recommendation{
		Title:                   rec.Title,
		Description:             rec.Description,
		Type:                    rec.Type,
		Priority:                rec.Priority,
		EstimatedMonthlySavings: rec.EstimatedMonthlySavings,
		Action:                  rec.Action,
		ResourceIDs:             rec.ResourceIDs,
		Details:                 maps.Clone(rec.Details),
		RiskLevel:               rec.RiskLevel,
	}
}

func MapRecommendationsDomainToApi(recs []domain.OptimizationRecommendation) []api.Recommendation {
	out := make([]api.Recommendation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, MapRecommendationDomainToApi(rec))
	}
	return out
}

func MapAnalysisResultToApi(provider string, start, end time.Time, result analysis.Result) api.AnalysisReport {
	return api.AnalysisReport{
		Provider:         provider,
		Period:           MapPeriodToApi(start, end),
		CostAnalysis:     MapCostAnalysisDomainToApi(result.CostAnalysis),
		ResourceAnalysis: MapResourceAnalysisDomainToApi(result.ResourceAnalysis),
		Recommendations:  MapRecommendationsDomainToApi(result.Recommendations),
		PotentialSavings: result.TotalPotentialSavings(),
	}
}
