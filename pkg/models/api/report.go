package api

import "time"

type TimePeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration_days"`
}

type CostDriver struct {
	Service    string  `json:"service"`
	Cost       float64 `json:"cost"`
	Percentage float64 `json:"percentage"`
}

type CostAnomaly struct {
	Type     string  `json:"type"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Service  string  `json:"service,omitempty"`
	Value    float64 `json:"value"`
}

type CostAnalysis struct {
	TotalCost      float64            `json:"total_cost"`
	CostsByService map[string]float64 `json:"costs_by_service"`
	CostsByRegion  map[string]float64 `json:"costs_by_region"`
	TopCostDrivers []CostDriver       `json:"top_cost_drivers"`
	CostTrend      string             `json:"cost_trend"`
	Anomalies      []CostAnomaly      `json:"anomalies"`
}

type Resource struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Region      string             `json:"region"`
	MonthlyCost float64            `json:"monthly_cost"`
	Tags        map[string]string  `json:"tags,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	Utilization map[string]float64 `json:"utilization,omitempty"`
}

type ResourceAnalysis struct {
	TotalResources     int                `json:"total_resources"`
	Unused             []Resource         `json:"unused"`
	Underutilized      []Resource         `json:"underutilized"`
	Overprovisioned    []Resource         `json:"overprovisioned"`
	Idle               []Resource         `json:"idle"`
	ResourcesByType    map[string]int     `json:"resources_by_type"`
	AverageUtilization map[string]float64 `json:"average_utilization"`
}

type Recommendation struct {
	Title                   string         `json:"title"`
	Description             string         `json:"description"`
	Type                    string         `json:"type"`
	Priority                string         `json:"priority"`
	EstimatedMonthlySavings float64        `json:"estimated_monthly_savings"`
	Action                  string         `json:"action"`
	ResourceIDs             []string       `json:"resource_ids,omitempty"`
	Details                 map[string]any `json:"details,omitempty"`
	RiskLevel               string         `json:"risk_level"`
}

type AnalysisReport struct {
	Provider         string           `json:"provider"`
	Period           TimePeriod       `json:"period"`
	CostAnalysis     CostAnalysis     `json:"cost_analysis"`
	ResourceAnalysis ResourceAnalysis `json:"resource_analysis"`
	Recommendations  []Recommendation `json:"recommendations"`
	PotentialSavings float64          `json:"potential_monthly_savings"`
}

type RecommendationsReport struct {
	Provider         string           `json:"provider"`
	Period           TimePeriod       `json:"period"`
	Recommendations  []Recommendation `json:"recommendations"`
	PotentialSavings float64          `json:"potential_monthly_savings"`
}

type ProviderList struct {
	Providers []string `json:"providers"`
}
