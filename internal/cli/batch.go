package cli

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

func (a *app) batchCommand() *cobra.Command {
	var (
		file         string
		outputDir    string
		device       string
		format       string
		fullPage     bool
		pollInterval time.Duration
		concurrency  int
		noProgress   bool
	)

	cmd := &cobra.Command{
		Use:   "batch [URL...]",
		Short: "Capture multiple URLs with one bulk job",
		Example: `  shotctl batch https://a.com https://b.com
  shotctl batch -f urls.txt -o ./screenshots --format webp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string{}, args...)
			if file != "" {
				fromFile, err := readURLs(file)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}

			api, err := a.client()
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = a.cfg.Defaults.OutputDir
			}
			if pollInterval <= 0 {
				pollInterval = a.cfg.Batch.PollInterval
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.Batch.Concurrency
			}

			orch := service.NewBatchOrchestrator(api, a.materializer(), a.log, service.BatchConfig{
				PollInterval:     pollInterval,
				Concurrency:      concurrency,
				TerminalStatuses: a.cfg.Batch.TerminalStatuses,
			})

			spinner := display.NewSpinner(a.p.err, display.MsgCreatingBatch)
			defer spinner.Stop()

			savingShown := false
			hooks := service.BatchHooks{
				OnCreated: func(job *domain.BulkJob) {
					spinner.Stop()
					a.p.printf("%s %d URLs\n", bold("Batch capture:"), len(urls))
					a.p.printf("  Job ID: %s\n", dim(job.ID))
				},
				OnItem: func(r service.ItemResult) {
					if !savingShown {
						a.p.printf("\n%s\n", cyan("Saving screenshots..."))
						savingShown = true
					}
					if r.Succeeded() {
						a.p.printf("  %s %s %s\n", green("✓"), r.Path, dim("("+display.FormatSize(r.Size)+")"))
						return
					}
					a.p.failure("%s - %v", r.Item.URL, r.Err)
				},
			}
			if !noProgress {
				hooks.NewProgress = func(total int) service.Progress {
					return display.NewBatchProgress(a.p.err, total, "Processing")
				}
			}

			report, err := orch.Run(cmd.Context(), service.BatchRequest{
				URLs:      urls,
				Format:    domain.ImageFormat(firstNonEmpty(format, a.cfg.Defaults.Format)),
				Device:    firstNonEmpty(device, a.cfg.Defaults.Device),
				FullPage:  fullPage,
				OutputDir: outputDir,
			}, hooks)
			spinner.Stop()
			if report != nil {
				a.printBatchSummary(report)
			}
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&file, "file", "f", "", "file with one URL per line (# starts a comment)")
	fs.StringVarP(&outputDir, "output-dir", "o", "", "directory for the screenshots (default from defaults.output_dir)")
	fs.StringVarP(&device, "device", "d", "", "device preset for every URL")
	fs.StringVar(&format, "format", "", "image format: png, jpeg, webp, pdf")
	fs.BoolVar(&fullPage, "full-page", false, "capture full pages")
	fs.DurationVar(&pollInterval, "poll-interval", 0, "time between status checks (default from batch.poll_interval)")
	fs.IntVar(&concurrency, "concurrency", 1, "parallel downloads once the job is done")
	fs.BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	return cmd
}

func (a *app) printBatchSummary(r *service.BatchReport) {
	p := a.p
	p.println()
	p.rule()
	p.println(bold("Batch Summary"))
	p.printf("  Total: %d\n", r.Requested)
	p.printf("  %s %d\n", green("Successful:"), r.Succeeded)
	if r.Failed > 0 {
		p.printf("  %s %d\n", red("Failed:"), r.Failed)
	}
	p.printf("  Output: %s\n", cyan(r.OutputDir))
	p.rule()
}

// readURLs returns the non-empty, non-comment lines of path, trimmed.
func readURLs(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &domain.ReadError{Path: path, Err: err}
	}
	defer fh.Close()

	var urls []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.ReadError{Path: path, Err: err}
	}
	return urls, nil
}
