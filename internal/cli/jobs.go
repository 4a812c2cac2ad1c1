package cli

import (
	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

func (a *app) jobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List and manage screenshot jobs",
	}
	cmd.AddCommand(a.jobsListCommand(), a.jobsGetCommand(), a.jobsCancelCommand(), a.jobsResultCommand())
	return cmd
}

func (a *app) jobService() (*service.JobService, error) {
	api, err := a.client()
	if err != nil {
		return nil, err
	}
	return service.NewJobService(api, a.materializer(), a.log), nil
}

func (a *app) jobsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recent jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.jobService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Fetching jobs...")
			jobs, err := svc.List(cmd.Context())
			spinner.Stop()
			if err != nil {
				return err
			}

			p := a.p
			if len(jobs) == 0 {
				p.println(dim("No jobs found."))
				return nil
			}
			p.println(title("Recent Jobs"))
			p.println()
			for _, job := range jobs {
				p.printf("%s %s (%s)\n", statusIcon(job.Status), cyan(job.ID), bold(string(job.Status)))
				if job.URL != "" {
					p.printf("    URL: %s\n", dim(job.URL))
				}
				if job.CreatedAt != "" {
					p.printf("    Created: %s\n", dim(job.CreatedAt))
				}
				if job.CompletedAt != "" {
					p.printf("    Completed: %s\n", dim(job.CompletedAt))
				}
				if job.Status == domain.JobStatusFailed && job.ErrorMessage != "" {
					p.printf("    Error: %s\n", red(job.ErrorMessage))
				}
				if job.ResultURL != "" {
					p.printf("    Result: %s\n", dim(job.ResultURL))
				}
				p.println()
			}
			return nil
		},
	}
}

func (a *app) jobsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show the details of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.jobService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Fetching job...")
			job, err := svc.Get(cmd.Context(), args[0])
			spinner.Stop()
			if err != nil {
				return err
			}

			p := a.p
			p.println(title("Job Details"))
			p.println()
			p.printf("  ID: %s\n", cyan(job.ID))
			p.printf("  Status: %s\n", bold(statusColor(job.Status)(string(job.Status))))
			optional := []struct{ label, value string }{
				{"URL", job.URL},
				{"Created", job.CreatedAt},
				{"Started", job.StartedAt},
				{"Completed", job.CompletedAt},
				{"Expires", job.ExpiresAt},
			}
			for _, o := range optional {
				if o.value != "" {
					p.printf("  %s: %s\n", o.label, o.value)
				}
			}
			if job.ResultURL != "" {
				p.printf("  Result URL: %s\n", cyan(job.ResultURL))
			}
			if job.ErrorCode != "" {
				p.printf("  Error Code: %s\n", red(job.ErrorCode))
			}
			if job.ErrorMessage != "" {
				p.printf("  Error: %s\n", red(job.ErrorMessage))
			}
			if job.Status == domain.JobStatusCompleted {
				p.printf("\n%s %s\n", dim("Tip:"), dim("Run `shotctl jobs result "+job.ID+"` to download"))
			}
			return nil
		},
	}
}

func (a *app) jobsCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a queued or running job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.jobService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Cancelling job...")
			job, cancelled, err := svc.Cancel(cmd.Context(), args[0])
			spinner.Stop()
			if err != nil {
				return err
			}
			if cancelled {
				a.p.success("Job %s cancelled", args[0])
			} else {
				a.p.printf("%s Job %s is now %s (may have completed before cancellation)\n", yellow("!"), args[0], job.Status)
			}
			return nil
		},
	}
}

func (a *app) jobsResultCommand() *cobra.Command {
	var f captureFlags
	cmd := &cobra.Command{
		Use:   "result ID",
		Short: "Download the result of a completed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.jobService()
			if err != nil {
				return err
			}
			spinner := display.NewSpinner(a.p.err, "Checking job status...")
			_, res, err := svc.Result(cmd.Context(), args[0], service.ResultOptions{
				OutputPath: f.output,
				Display:    f.display || f.output == "",
			})
			spinner.Stop()
			if err != nil {
				return err
			}

			a.p.success("Downloaded %s", display.FormatSize(res.Outcome.Size))
			if res.Outcome.Path != "" {
				a.p.printf("  Saved to: %s\n", cyan(res.Outcome.Path))
			}
			if res.MirrorURL != "" {
				a.p.printf("  Mirrored to: %s\n", cyan(res.MirrorURL))
			}
			if res.DisplayErr != nil {
				a.p.warning("Could not display image: %v (use --output to save it instead)", res.DisplayErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&f.display, "display", false, "show the image in the terminal")
	return cmd
}
