package domain

// ResourceAnalysis is the derived result of classifying a resource snapshot
// into waste categories. Categories are non-exclusive: a resource may appear
// in more than one list (Idle and the zero-utilization subset of Unused are
// set-equal by construction).
type ResourceAnalysis struct {
	TotalResources  int
	Unused          []Resource
	Underutilized   []Resource
	Overprovisioned []Resource
	Idle            []Resource
	ResourcesByType map[string]int
	// AverageUtilization is the mean CPU percentage per resource type,
	// computed only over resources that report utilization.
	AverageUtilization map[string]float64
}
