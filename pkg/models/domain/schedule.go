package domain

import "time"

// Schedule actions.
const (
	ScheduleActionStop  = "stop"
	ScheduleActionStart = "start"
)

// Schedule is one automatic start/stop rule for resources matching a tag
// filter. ID is a generated opaque identifier that stays valid when other
// schedules are removed.
type Schedule struct {
	ID         string
	Action     string
	TagFilter  map[string]string
	Expression string // e.g. "weekends" or a cron expression
	Timezone   string
	CreatedAt  time.Time
}
