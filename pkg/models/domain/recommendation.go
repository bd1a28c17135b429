package domain

// Recommendation types. External actuators key their stop/terminate/retier
// operations on these.
const (
	RecommendationTerminateUnused  = "terminate-unused"
	RecommendationStopIdle         = "stop-idle"
	RecommendationDownsize         = "downsize"
	RecommendationScheduleStop     = "schedule-stop"
	RecommendationMoveStorageTier  = "move-storage-tier"
	RecommendationDeleteUnused     = "delete-unused"
	RecommendationReservedInstance = "reserved-instance"
)

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// OptimizationRecommendation is one prioritized cost-reduction suggestion.
// Details carries renderer-facing structured fields; its keys are part of
// the external contract and must stay stable.
type OptimizationRecommendation struct {
	Title                   string
	Description             string
	Type                    string
	Priority                string
	EstimatedMonthlySavings float64
	Action                  string
	ResourceIDs             []string
	Details                 map[string]any
	RiskLevel               string
}
