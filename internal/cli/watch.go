package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

func (a *app) watchCommand() *cobra.Command {
	var (
		interval    string
		outputDir   string
		device      string
		format      string
		fullPage    bool
		maxCaptures int
		noDisplay   bool
	)

	cmd := &cobra.Command{
		Use:   "watch URL",
		Short: "Re-capture a page at a fixed interval",
		Example: `  shotctl watch https://example.com --interval 30s
  shotctl watch example.com -i 1m -o ./history --max-captures 10 --no-display`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := service.NewWatchSession(domain.CaptureRequest{
				URL:      args[0],
				Device:   firstNonEmpty(device, a.cfg.Defaults.Device),
				Format:   domain.ImageFormat(firstNonEmpty(format, a.cfg.Defaults.Format)),
				FullPage: fullPage,
			}, firstNonEmpty(interval, a.cfg.Watch.Interval), maxCaptures)
			if err != nil {
				return err
			}
			api, err := a.client()
			if err != nil {
				return err
			}

			p := a.p
			p.println(bold(cyan("Watch Mode")))
			p.printf("  URL: %s\n", session.Request.URL)
			p.printf("  Interval: %s\n", session.Interval)
			if outputDir != "" {
				p.printf("  Output: %s\n", outputDir)
			}
			if maxCaptures > 0 {
				p.printf("  Max captures: %d\n", maxCaptures)
			}
			p.printf("\n%s\n\n", dim("Press Ctrl+C to stop"))

			loop := service.NewWatchLoop(api, a.materializer(), a.log)
			summary, err := loop.Run(cmd.Context(), session, service.WatchOptions{
				OutputDir: outputDir,
				Display:   !noDisplay,
				OnAttempt: func(n int) {
					p.printf("%s %s\n", cyan("["+time.Now().Format("15:04:05")+"]"), dim(fmt.Sprintf("Capture #%d", n)))
				},
				OnResult: a.printWatchIteration,
				OnWait: func(d time.Duration) {
					p.printf("%s\n\n", dim("Next capture in "+d.String()+"..."))
				},
			})

			switch {
			case errors.Is(err, context.Canceled):
				p.printf("\n%s Watch stopped after %d captures (%d ok, %d failed)\n",
					yellow("■"), summary.Attempts, summary.Succeeded, summary.Failed)
				return nil
			case err != nil:
				return err
			}
			p.printf("\n%s Maximum captures (%d) reached\n", green("✓"), maxCaptures)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&interval, "interval", "i", "", "time between captures, e.g. 5s, 30s, 1m 30s, 1day (default from watch.interval)")
	fs.StringVarP(&outputDir, "output-dir", "o", "", "save every capture into this directory")
	fs.StringVarP(&device, "device", "d", "", "device preset")
	fs.StringVar(&format, "format", "", "image format: png, jpeg, webp")
	fs.BoolVar(&fullPage, "full-page", false, "capture the full page")
	fs.IntVar(&maxCaptures, "max-captures", 0, "stop after this many attempts, 0 runs until interrupted")
	fs.BoolVar(&noDisplay, "no-display", false, "do not show captures in the terminal")
	return cmd
}

func (a *app) printWatchIteration(it service.WatchIteration) {
	p := a.p
	if !it.Succeeded() {
		p.failure("Capture failed: %v", it.CaptureErr)
		return
	}
	o := it.Result.Outcome
	p.success("Captured %s", display.FormatDimensions(o.Width, o.Height, o.Size))
	if it.SaveErr != nil {
		p.failure("Failed to save: %v", it.SaveErr)
	} else if o.Path != "" {
		p.printf("  Saved to: %s\n", cyan(o.Path))
	}
	if it.Result.DisplayErr != nil {
		p.warning("Could not display image: %v", it.Result.DisplayErr)
	}
}
