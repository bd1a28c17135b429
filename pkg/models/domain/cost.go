package domain

import "time"

// Cost trend values. Trend detection needs a historical baseline the core
// does not have yet, so analyses always carry TrendStable for now.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Anomaly severities.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Anomaly types.
const (
	AnomalyHighTotalCost   = "high_total_cost"
	AnomalyHighServiceCost = "high_service_cost"
)

// CostData is a time-windowed cost snapshot produced by a provider adapter.
type CostData struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TotalCost      float64
	CostsByService map[string]float64
	CostsByRegion  map[string]float64
	Resources      []Resource
}

// CostDriver is one entry of the ranked top-cost-drivers list.
type CostDriver struct {
	Service    string
	Cost       float64
	Percentage float64 // share of the period total, 0-100
}

// CostAnomaly is a structured anomaly finding.
type CostAnomaly struct {
	Type     string
	Severity string
	Message  string
	Service  string // set for per-service anomalies only
	Value    float64
}

// CostAnalysis is the derived, read-only result of analyzing a CostData
// snapshot.
type CostAnalysis struct {
	TotalCost      float64
	CostsByService map[string]float64
	CostsByRegion  map[string]float64
	TopCostDrivers []CostDriver
	CostTrend      string
	Anomalies      []CostAnomaly
	PeriodStart    time.Time
	PeriodEnd      time.Time
}
