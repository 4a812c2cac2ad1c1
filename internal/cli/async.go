package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

func (a *app) asyncCommand() *cobra.Command {
	var (
		f            captureFlags
		noPoll       bool
		poll         bool
		pollInterval time.Duration
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "async URL",
		Short: "Take a screenshot through an async job and track it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req, err := f.request(args[0], a.cfg)
			if err != nil {
				return err
			}
			api, err := a.client()
			if err != nil {
				return err
			}

			if pollInterval <= 0 {
				pollInterval = a.cfg.Poll.Interval
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = a.cfg.Poll.Timeout
			}
			waiting := poll && !noPoll

			spinner := display.NewSpinner(a.p.err, display.MsgCreatingJob)

			svc := service.NewAsyncCaptureService(api, a.materializer(), a.log)
			res, err := svc.Run(ctx, req, service.AsyncOptions{
				Poll:         waiting,
				PollInterval: pollInterval,
				Timeout:      timeout,
				OutputPath:   f.output,
				Display:      f.shouldDisplay(a.cfg),
				OnCreated: func(job *domain.Job) {
					spinner.Update(display.MsgWaiting + " " + job.ID)
				},
				OnStatus: func(job *domain.Job) {
					spinner.Update("Status: " + string(job.Status))
				},
			})
			spinner.Stop()
			if err != nil {
				return err
			}

			if !waiting {
				a.printJobCreated(res.Job)
				return nil
			}
			a.p.printf("%s %s\n", dim("Job ID:"), cyan(res.Job.ID))
			printCaptureSummary(a.p, req.URL, res.Result)
			return nil
		},
	}

	f.bindRequest(cmd)
	f.bindOutput(cmd)
	fs := cmd.Flags()
	fs.BoolVar(&poll, "poll", true, "wait for the job to complete")
	fs.BoolVar(&noPoll, "no-poll", false, "return as soon as the job is created")
	fs.DurationVar(&pollInterval, "poll-interval", 0, "time between status checks (default from poll.interval)")
	fs.DurationVar(&timeout, "timeout", 0, "give up waiting after this long, 0 waits forever (default from poll.timeout)")
	return cmd
}

func (a *app) printJobCreated(job *domain.Job) {
	a.p.println()
	a.p.success("Job created successfully!")
	a.p.printf("  Job ID: %s\n", cyan(job.ID))
	if job.StatusURL != "" {
		a.p.printf("  Status URL: %s\n", dim(job.StatusURL))
	}
	a.p.printf("\nUse `shotctl jobs get %s` to check status\n", job.ID)
}
