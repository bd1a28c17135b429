package actions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Scheduler stores automatic start/stop schedules. Entries are addressed by
// a generated opaque ID, so removing one schedule never invalidates the
// identifiers of the others.
type Scheduler struct {
	mu        sync.RWMutex
	schedules map[string]domain.Schedule
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		schedules: make(map[string]domain.Schedule),
	}
}

// ScheduleStop registers an automatic stop for resources matching the tag
// filter and returns the stored schedule.
func (s *Scheduler) ScheduleStop(ctx context.Context, tagFilter map[string]string, expression, timezone string) (domain.Schedule, error) {
	return s.add(ctx, domain.ScheduleActionStop, tagFilter, expression, timezone)
}

// ScheduleStart registers an automatic start for resources matching the tag
// filter.
func (s *Scheduler) ScheduleStart(ctx context.Context, tagFilter map[string]string, expression, timezone string) (domain.Schedule, error) {
	return s.add(ctx, domain.ScheduleActionStart, tagFilter, expression, timezone)
}

func (s *Scheduler) add(ctx context.Context, action string, tagFilter map[string]string, expression, timezone string) (domain.Schedule, error) {
	if expression == "" {
		return domain.Schedule{}, fmt.Errorf("schedule expression cannot be empty")
	}
	if timezone == "" {
		timezone = "UTC"
	}

	schedule := domain.Schedule{
		ID:         uuid.NewString(),
		Action:     action,
		TagFilter:  tagFilter,
		Expression: expression,
		Timezone:   timezone,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.schedules[schedule.ID] = schedule
	s.mu.Unlock()

	zerolog.Ctx(ctx).Info().
		Str("schedule_id", schedule.ID).
		Str("action", action).
		Str("expression", expression).
		Interface("tag_filter", tagFilter).
		Msg("created schedule")

	return schedule, nil
}

func (s *Scheduler) Get(id string) (domain.Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.schedules[id]
	return schedule, ok
}

// List returns all schedules ordered by creation time.
func (s *Scheduler) List() []domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedules := make([]domain.Schedule, 0, len(s.schedules))
	for _, schedule := range s.schedules {
		schedules = append(schedules, schedule)
	}
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].CreatedAt.Equal(schedules[j].CreatedAt) {
			return schedules[i].ID < schedules[j].ID
		}
		return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
	})
	return schedules
}

func (s *Scheduler) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedules[id]; !ok {
		return fmt.Errorf("schedule %q not found", id)
	}
	delete(s.schedules, id)

	zerolog.Ctx(ctx).Info().Str("schedule_id", id).Msg("removed schedule")
	return nil
}
