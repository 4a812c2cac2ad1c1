package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

func (a *app) scheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"schedules"},
		Short:   "Manage scheduled screenshots",
	}
	cmd.AddCommand(
		a.scheduleListCommand(),
		a.scheduleCreateCommand(),
		a.scheduleGetCommand(),
		a.scheduleUpdateCommand(),
		a.scheduleDeleteCommand(),
		a.scheduleActionCommand("pause", "Pause a schedule", "Pausing schedule...",
			(*service.ScheduleService).Pause,
			func(s *domain.Schedule) { a.p.printf("%s Schedule %s paused\n", yellow("⏸"), bold(s.Name)) }),
		a.scheduleActionCommand("resume", "Resume a paused schedule", "Resuming schedule...",
			(*service.ScheduleService).Resume,
			func(s *domain.Schedule) {
				a.p.printf("%s Schedule %s resumed\n", green("▶"), bold(s.Name))
				if s.NextExecutionAt != "" {
					a.p.printf("  Next execution: %s\n", cyan(s.NextExecutionAt))
				}
			}),
		a.scheduleActionCommand("trigger", "Run a schedule now", "Triggering schedule...",
			(*service.ScheduleService).Trigger,
			func(s *domain.Schedule) { a.p.printf("%s Schedule %s triggered\n", cyan("⚡"), bold(s.Name)) }),
		a.scheduleHistoryCommand(),
	)
	return cmd
}

func (a *app) scheduleService() (*service.ScheduleService, error) {
	api, err := a.client()
	if err != nil {
		return nil, err
	}
	return service.NewScheduleService(api, a.log), nil
}

func scheduleStatusColor(status string) func(a ...interface{}) string {
	switch status {
	case domain.ScheduleActive:
		return green
	case domain.SchedulePaused:
		return yellow
	default:
		return fmt.Sprint
	}
}

func (a *app) scheduleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.scheduleService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Fetching schedules...")
			schedules, err := svc.List(cmd.Context())
			spinner.Stop()
			if err != nil {
				return err
			}

			p := a.p
			if len(schedules) == 0 {
				p.println(dim("No schedules found."))
				return nil
			}
			p.println(title("Schedules"))
			p.println()
			for _, s := range schedules {
				c := scheduleStatusColor(s.Status)
				p.printf("%s %s (%s)\n", c("•"), bold(s.Name), dim(s.ID))
				p.printf("    URL: %s\n", s.URL)
				p.printf("    Schedule: %s (%s)\n", s.Schedule, s.TimezoneOrUTC())
				if s.ScheduleDescription != "" {
					p.printf("    Description: %s\n", dim(s.ScheduleDescription))
				}
				p.printf("    Status: %s\n", c(s.Status))
				if s.NextExecutionAt != "" {
					p.printf("    Next run: %s\n", cyan(s.NextExecutionAt))
				}
				p.printf("    Executions: %d total (%s success, %s failed)\n",
					s.ExecutionCount, green(s.SuccessCount), red(s.FailureCount))
				p.println()
			}
			return nil
		},
	}
}

func (a *app) scheduleCreateCommand() *cobra.Command {
	var req domain.CreateScheduleRequest
	cmd := &cobra.Command{
		Use:     "create URL",
		Short:   "Create a schedule",
		Example: `  shotctl schedule create example.com --name homepage --cron "0 9 * * *" --timezone Europe/Amsterdam`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.scheduleService()
			if err != nil {
				return err
			}
			req.URL = args[0]
			req.Device = firstNonEmpty(req.Device, a.cfg.Defaults.Device)

			spinner := display.NewSpinner(a.p.err, "Creating schedule...")
			s, err := svc.Create(cmd.Context(), req)
			spinner.Stop()
			if err != nil {
				return err
			}

			p := a.p
			p.println(bold(green("Schedule created!")))
			p.printf("  ID: %s\n", cyan(s.ID))
			p.printf("  Name: %s\n", s.Name)
			p.printf("  URL: %s\n", s.URL)
			p.printf("  Schedule: %s\n", s.Schedule)
			if s.NextExecutionAt != "" {
				p.printf("  Next execution: %s\n", cyan(s.NextExecutionAt))
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&req.Name, "name", "", "schedule name")
	fs.StringVar(&req.Schedule, "cron", "", `cron expression, e.g. "0 9 * * *" for daily at 9am`)
	fs.StringVar(&req.Timezone, "timezone", "", `timezone, e.g. "America/New_York"`)
	fs.StringVarP(&req.Device, "device", "d", "", "device preset")
	fs.IntVar(&req.RetentionDays, "retention-days", 0, "days to keep captures (1-365)")
	fs.StringVar(&req.WebhookURL, "webhook-url", "", "URL notified after every run")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("cron")
	return cmd
}

func (a *app) scheduleGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show the details of a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.scheduleService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Fetching schedule...")
			s, err := svc.Get(cmd.Context(), args[0])
			spinner.Stop()
			if err != nil {
				return err
			}

			p := a.p
			p.println(title("Schedule Details"))
			p.println()
			p.printf("  ID: %s\n", cyan(s.ID))
			p.printf("  Name: %s\n", bold(s.Name))
			p.printf("  URL: %s\n", s.URL)
			p.printf("  Schedule: %s\n", s.Schedule)
			if s.ScheduleDescription != "" {
				p.printf("  Description: %s\n", s.ScheduleDescription)
			}
			p.printf("  Timezone: %s\n", s.TimezoneOrUTC())
			p.printf("  Status: %s\n", scheduleStatusColor(s.Status)(s.Status))
			if s.RetentionDays > 0 {
				p.printf("  Retention: %d days\n", s.RetentionDays)
			}
			if s.LastExecutedAt != "" {
				p.printf("  Last executed: %s\n", s.LastExecutedAt)
			}
			if s.NextExecutionAt != "" {
				p.printf("  Next execution: %s\n", cyan(s.NextExecutionAt))
			}
			p.printf("  Executions: %d (%s success, %s failed)\n",
				s.ExecutionCount, green(s.SuccessCount), red(s.FailureCount))
			if s.CreatedAt != "" {
				p.printf("  Created: %s\n", dim(s.CreatedAt))
			}
			return nil
		},
	}
}

func (a *app) scheduleUpdateCommand() *cobra.Command {
	var (
		name, url, cron, timezone string
		retentionDays             int
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req domain.UpdateScheduleRequest
			fs := cmd.Flags()
			if fs.Changed("name") {
				req.Name = &name
			}
			if fs.Changed("url") {
				req.URL = &url
			}
			if fs.Changed("cron") {
				req.Schedule = &cron
			}
			if fs.Changed("timezone") {
				req.Timezone = &timezone
			}
			if fs.Changed("retention-days") {
				req.RetentionDays = &retentionDays
			}

			svc, err := a.scheduleService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Updating schedule...")
			s, err := svc.Update(cmd.Context(), args[0], req)
			spinner.Stop()
			if err != nil {
				return err
			}
			a.p.println(bold(green("Schedule updated!")))
			a.p.printf("  ID: %s\n", s.ID)
			a.p.printf("  Name: %s\n", s.Name)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&name, "name", "", "new name")
	fs.StringVar(&url, "url", "", "new URL")
	fs.StringVar(&cron, "cron", "", "new cron expression")
	fs.StringVar(&timezone, "timezone", "", "new timezone")
	fs.IntVar(&retentionDays, "retention-days", 0, "new retention in days (1-365)")
	return cmd
}

func (a *app) scheduleDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.scheduleService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Deleting schedule...")
			err = svc.Delete(cmd.Context(), args[0])
			spinner.Stop()
			if err != nil {
				return err
			}
			a.p.success("Schedule %s deleted", args[0])
			return nil
		},
	}
}

// scheduleActionCommand builds the pause, resume and trigger commands, which
// differ only in the call and the confirmation line.
func (a *app) scheduleActionCommand(
	use, short, progress string,
	action func(*service.ScheduleService, context.Context, string) (*domain.Schedule, error),
	report func(*domain.Schedule),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.scheduleService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, progress)
			s, err := action(svc, cmd.Context(), args[0])
			spinner.Stop()
			if err != nil {
				return err
			}
			report(s)
			return nil
		},
	}
}

func (a *app) scheduleHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history ID",
		Short: "Show recent runs of a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.scheduleService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Fetching history...")
			h, err := svc.History(cmd.Context(), args[0], limit)
			spinner.Stop()
			if err != nil {
				return err
			}

			p := a.p
			p.printf("%s (%s)\n\n", title("Execution History"), dim(fmt.Sprintf("%d total", h.TotalExecutions)))
			if len(h.Executions) == 0 {
				p.println(dim("No executions yet."))
				return nil
			}
			for _, e := range h.Executions {
				icon := dim("•")
				switch e.Status {
				case "COMPLETED":
					icon = green("✓")
				case "FAILED":
					icon = red("✗")
				}
				p.printf("%s %s - %s\n", icon, e.ExecutedAt, bold(e.Status))
				if e.ResultURL != "" {
					p.printf("    Result: %s\n", dim(e.ResultURL))
				}
				if e.ErrorMessage != "" {
					p.printf("    Error: %s\n", red(e.ErrorMessage))
				}
				if e.RenderTimeMs > 0 {
					p.printf("    Render time: %s\n", dim(time.Duration(e.RenderTimeMs)*time.Millisecond))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs")
	return cmd
}
