package commands

import (
	"fmt"

	"github.com/finops-tools/cloudopt/pkg/services/actions"
	"github.com/spf13/cobra"
)

type ScheduleCmd struct {
	action     string
	expression string
	timezone   string
	tags       map[string]string
	scheduler  *actions.Scheduler
}

// NewScheduleCmd registers a start/stop schedule for resources matching a
// tag filter.
func NewScheduleCmd(scheduler *actions.Scheduler) *cobra.Command {
	sc := &ScheduleCmd{scheduler: scheduler}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create a start/stop schedule for tagged resources",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.action, "action", "stop", "Schedule action (stop, start)")
	cmd.Flags().StringVar(&sc.expression, "expression", "", "Schedule expression, e.g. a cron spec")
	cmd.Flags().StringVar(&sc.timezone, "timezone", "UTC", "IANA timezone for the expression")
	cmd.Flags().StringToStringVar(&sc.tags, "tag", nil, "Tag filter as key=value, repeatable")

	_ = cmd.MarkFlagRequired("expression")

	return cmd
}

func (sc *ScheduleCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var err error
	var id string
	switch sc.action {
	case "stop":
		schedule, scheduleErr := sc.scheduler.ScheduleStop(ctx, sc.tags, sc.expression, sc.timezone)
		id, err = schedule.ID, scheduleErr
	case "start":
		schedule, scheduleErr := sc.scheduler.ScheduleStart(ctx, sc.tags, sc.expression, sc.timezone)
		id, err = schedule.ID, scheduleErr
	default:
		return fmt.Errorf("unknown schedule action %q", sc.action)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s schedule %s\n", sc.action, id)
	return nil
}
