package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	topDriverCount     = 10
	highTotalThreshold = 10000.0
	serviceCostFactor  = 3.0
)

// CostAnalyzer aggregates a cost snapshot into per-service insights,
// ranked cost drivers and anomaly findings. Analyze is a pure function of
// its input; the analyzer holds no state and is safe for concurrent use.
type CostAnalyzer struct{}

func NewCostAnalyzer() *CostAnalyzer {
	return &CostAnalyzer{}
}

func (a *CostAnalyzer) Analyze(ctx context.Context, data domain.CostData) domain.CostAnalysis {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Float64("total_cost", data.TotalCost).
		Int("services", len(data.CostsByService)).
		Msg("analyzing cost data")

	return domain.CostAnalysis{
		TotalCost:      data.TotalCost,
		CostsByService: data.CostsByService,
		CostsByRegion:  data.CostsByRegion,
		TopCostDrivers: topCostDrivers(data.CostsByService, data.TotalCost),
		// Trend detection needs a historical baseline; never fabricate one.
		CostTrend:   domain.TrendStable,
		Anomalies:   detectAnomalies(data),
		PeriodStart: data.PeriodStart,
		PeriodEnd:   data.PeriodEnd,
	}
}

func topCostDrivers(costsByService map[string]float64, totalCost float64) []domain.CostDriver {
	if totalCost == 0 {
		return []domain.CostDriver{}
	}

	drivers := make([]domain.CostDriver, 0, len(costsByService))
	for _, service := range sortedKeys(costsByService) {
		cost := costsByService[service]
		drivers = append(drivers, domain.CostDriver{
			Service:    service,
			Cost:       cost,
			Percentage: cost / totalCost * 100,
		})
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Cost > drivers[j].Cost
	})

	if len(drivers) > topDriverCount {
		drivers = drivers[:topDriverCount]
	}
	return drivers
}

func detectAnomalies(data domain.CostData) []domain.CostAnomaly {
	var anomalies []domain.CostAnomaly

	if data.TotalCost > highTotalThreshold {
		anomalies = append(anomalies, domain.CostAnomaly{
			Type:     domain.AnomalyHighTotalCost,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Total cost is unusually high: $%.2f", data.TotalCost),
			Value:    data.TotalCost,
		})
	}

	var avgServiceCost float64
	if len(data.CostsByService) > 0 {
		avgServiceCost = data.TotalCost / float64(len(data.CostsByService))
	}

	// Evaluated independently per service; several may fire in one pass.
	for _, service := range sortedKeys(data.CostsByService) {
		cost := data.CostsByService[service]
		if cost > avgServiceCost*serviceCostFactor {
			anomalies = append(anomalies, domain.CostAnomaly{
				Type:     domain.AnomalyHighServiceCost,
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("%s has unusually high cost: $%.2f", service, cost),
				Service:  service,
				Value:    cost,
			})
		}
	}

	return anomalies
}

// sortedKeys gives map traversal a deterministic order, so repeated analysis
// of the same snapshot produces identical output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
