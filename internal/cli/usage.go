package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
)

const quotaBarWidth = 40

func (a *app) usageCommand() *cobra.Command {
	var (
		format    string
		quotaOnly bool
	)
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show API usage and quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !quotaOnly {
				switch format {
				case "graph", "table", "json":
				default:
					return &domain.InvalidOptionError{Option: "usage format", Value: format, Allowed: "graph, table, or json"}
				}
			}
			api, err := a.client()
			if err != nil {
				return err
			}

			if quotaOnly {
				spinner := display.NewSpinner(a.p.err, "Fetching quota...")
				q, err := api.GetQuota(cmd.Context())
				spinner.Stop()
				if err != nil {
					return err
				}
				a.printQuota(q)
				return nil
			}

			spinner := display.NewSpinner(a.p.err, "Fetching usage data...")
			u, err := api.GetUsage(cmd.Context())
			spinner.Stop()
			if err != nil {
				return err
			}
			switch format {
			case "json":
				body, err := json.MarshalIndent(u, "", "  ")
				if err != nil {
					return err
				}
				a.p.println(string(body))
			case "table":
				a.printUsageTable(u)
			default:
				a.printUsageGraph(u)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "graph", "output format: graph, table, json")
	cmd.Flags().BoolVar(&quotaOnly, "quota-only", false, "show only the quota status")
	return cmd
}

func levelColor(percent int) func(a ...interface{}) string {
	switch {
	case percent >= 90:
		return red
	case percent >= 75:
		return yellow
	default:
		return green
	}
}

func (a *app) printQuotaBars(screenshots domain.ScreenshotQuota, bandwidth domain.BandwidthQuota) {
	p := a.p
	bar := display.NewBar(int64(screenshots.Used), int64(screenshots.Limit), quotaBarWidth)
	p.printf("\n%s\n", bold("Screenshots"))
	p.printf("[%s%s] %s/%s (%d%%)\n", levelColor(bar.Percent)(bar.Filled), dim(bar.Empty),
		humanize.Comma(int64(screenshots.Used)), humanize.Comma(int64(screenshots.Limit)), bar.Percent)
	p.printf("  %s remaining\n", green(humanize.Comma(int64(screenshots.Remaining))))

	bar = display.NewBar(bandwidth.UsedBytes, bandwidth.LimitBytes, quotaBarWidth)
	p.printf("\n%s\n", bold("Bandwidth"))
	p.printf("[%s%s] %s / %s (%d%%)\n", levelColor(bar.Percent)(bar.Filled), dim(bar.Empty),
		green(bandwidth.UsedFormatted), bandwidth.LimitFormatted, bar.Percent)
}

func (a *app) printQuota(q *domain.QuotaStatus) {
	p := a.p
	p.printf("\n%s\n", title("Quota Status"))
	p.printf("Tier: %s\n", cyan(q.Tier))
	a.printQuotaBars(q.Screenshots, q.Bandwidth)
	if q.PeriodEnds != "" {
		p.printf("\nPeriod ends: %s\n", dim(q.PeriodEnds))
	}
}

func (a *app) printUsageGraph(u *domain.Usage) {
	p := a.p
	p.println()
	p.rule()
	p.printf("  %s\n", title("API Usage Summary"))
	p.rule()

	p.printf("\n%s: %s\n", bold("Tier"), cyan(u.Tier))
	period := u.CurrentPeriod
	p.printf("\n%s: %s to %s\n", bold("Period"), dim(period.PeriodStart), dim(period.PeriodEnd))
	p.printf("\n%s\n", bold("Current Period"))
	p.printf("  Screenshots: %s\n", cyan(humanize.Comma(int64(period.ScreenshotsCount))))
	p.printf("  Bandwidth: %s\n", cyan(period.BandwidthFormatted))

	if u.Quota != nil {
		a.printQuotaBars(u.Quota.Screenshots, u.Quota.Bandwidth)
	}
	if len(u.History) > 0 {
		counts := make([]int, len(u.History))
		for i, h := range u.History {
			counts[i] = h.ScreenshotsCount
		}
		p.printf("\n%s\n%s\n", bold("Usage History (last periods)"), cyan(display.Sparkline(counts)))
	}
	if u.Totals != nil {
		p.printf("\n%s\n", bold("All-Time Totals"))
		p.printf("  Screenshots: %s\n", cyan(humanize.Comma(u.Totals.ScreenshotsCount)))
		p.printf("  Bandwidth: %s\n", cyan(u.Totals.BandwidthFormatted))
	}
	p.println()
	p.rule()
}

func (a *app) printUsageTable(u *domain.Usage) {
	p := a.p
	row := func(label string, value interface{}) {
		p.printf("%-20s %v\n", label, value)
	}
	p.printf("\n%s\n\n", title("API Usage"))
	row("Tier:", cyan(u.Tier))

	period := u.CurrentPeriod
	p.printf("\n%s\n", bold("Current Period"))
	row("  Start:", period.PeriodStart)
	row("  End:", period.PeriodEnd)
	row("  Screenshots:", humanize.Comma(int64(period.ScreenshotsCount)))
	row("  Bandwidth:", period.BandwidthFormatted)

	if q := u.Quota; q != nil {
		p.printf("\n%s\n", bold("Quota"))
		row("  Screenshots:", fmt.Sprintf("%s / %s (%d%% used)",
			humanize.Comma(int64(q.Screenshots.Used)), humanize.Comma(int64(q.Screenshots.Limit)), q.Screenshots.PercentUsed))
		row("  Remaining:", green(humanize.Comma(int64(q.Screenshots.Remaining))))
		row("  Bandwidth:", fmt.Sprintf("%s / %s (%d%% used)",
			q.Bandwidth.UsedFormatted, q.Bandwidth.LimitFormatted, q.Bandwidth.PercentUsed))
	}
	if t := u.Totals; t != nil {
		p.printf("\n%s\n", bold("All-Time Totals"))
		row("  Screenshots:", humanize.Comma(t.ScreenshotsCount))
		row("  Bandwidth:", t.BandwidthFormatted)
	}
	p.println()
}
