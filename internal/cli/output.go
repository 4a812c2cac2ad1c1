package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/timmy/shotctl/internal/client"
	"github.com/timmy/shotctl/internal/config"
	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

const (
	dashboardKeysURL    = "https://dashboard.allscreenshots.com/api-keys"
	dashboardBillingURL = "https://dashboard.allscreenshots.com/billing"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	title  = color.New(color.Bold, color.Underline).SprintFunc()
	alert  = color.New(color.FgRed, color.Bold).SprintFunc()
)

// printer writes user-facing output. Logs go through the logger instead.
type printer struct {
	out io.Writer
	err io.Writer
}

func (p *printer) println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

func (p *printer) printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

func (p *printer) success(format string, a ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", green("✓"), fmt.Sprintf(format, a...))
}

func (p *printer) failure(format string, a ...interface{}) {
	fmt.Fprintf(p.err, "%s %s\n", red("✗"), fmt.Sprintf(format, a...))
}

func (p *printer) warning(format string, a ...interface{}) {
	fmt.Fprintf(p.err, "%s %s\n", yellow("!"), fmt.Sprintf(format, a...))
}

func (p *printer) rule() {
	p.println(dim(strings.Repeat("═", 50)))
}

// statusIcon returns the one-character marker for a job status.
func statusIcon(s domain.JobStatus) string {
	switch s {
	case domain.JobStatusCompleted:
		return green("✓")
	case domain.JobStatusFailed:
		return red("✗")
	case domain.JobStatusCancelled:
		return yellow("⊘")
	case domain.JobStatusProcessing:
		return cyan("⟳")
	default:
		return dim("○")
	}
}

func statusColor(s domain.JobStatus) func(a ...interface{}) string {
	switch s {
	case domain.JobStatusCompleted:
		return green
	case domain.JobStatusFailed:
		return red
	case domain.JobStatusCancelled:
		return yellow
	case domain.JobStatusProcessing:
		return cyan
	default:
		return fmt.Sprint
	}
}

// FriendlyError renders err as a headline followed by a hint, the way it is
// shown to a user when a command fails.
func FriendlyError(err error) string {
	var (
		apiErr      *client.APIError
		jobFailed   *domain.JobFailedError
		notDone     *domain.JobNotCompletedError
		timeout     *domain.PollTimeoutError
		writeErr    *domain.WriteError
		readErr     *domain.ReadError
		badURL      *domain.InvalidURLError
		badFormat   *domain.InvalidFormatError
		badOption   *domain.InvalidOptionError
		badDuration *domain.InvalidDurationError
		tooMany     *domain.TooManyURLsError
		unknownKey  *config.UnknownKeyError
	)

	switch {
	case errors.Is(err, domain.ErrNoAPIKey):
		return fmt.Sprintf("%s\n\n%s\n  1. Set the %s (or %s) environment variable\n  2. Run: shotctl config add-authtoken <your-key>\n\n%s\n  %s",
			alert("No API key found!"),
			yellow("You can provide your API key in one of these ways:"),
			config.EnvAPIKey, config.LegacyEnvAPIKey,
			dim("Get your API key at:"), cyan(dashboardKeysURL))

	case errors.As(err, &apiErr):
		return friendlyAPIError(apiErr)

	case errors.As(err, &timeout):
		return fmt.Sprintf("%s\n\n%s\n  %s",
			alert("Timed out waiting for the job!"),
			yellow(err.Error()),
			dim(fmt.Sprintf("The job may still finish: shotctl jobs get %s", timeout.JobID)))

	case errors.As(err, &jobFailed):
		return fmt.Sprintf("%s\n\n%s", alert("Screenshot job failed!"), yellow(jobFailed.Message))

	case errors.Is(err, domain.ErrJobCancelled):
		return alert("Screenshot job was cancelled.")

	case errors.As(err, &notDone):
		return fmt.Sprintf("%s\n\n%s\n  %s",
			alert("Job is not completed!"),
			yellow(fmt.Sprintf("Current status: %s", notDone.Status)),
			dim(fmt.Sprintf("Check again with: shotctl jobs get %s", notDone.JobID)))

	case errors.Is(err, domain.ErrAllItemsFailed):
		return fmt.Sprintf("%s\n\n%s", alert("All screenshots failed!"), yellow("See the errors above for each URL."))

	case errors.Is(err, domain.ErrNoURLs):
		return fmt.Sprintf("%s\n\n%s", alert("No URLs provided!"), yellow("Pass URLs as arguments or use --file with one URL per line."))

	case errors.As(err, &tooMany):
		return fmt.Sprintf("%s\n\n%s", alert("Too many URLs!"), yellow(err.Error()))

	case errors.As(err, &badURL), errors.As(err, &badFormat), errors.As(err, &badOption),
		errors.As(err, &badDuration), errors.As(err, &unknownKey):
		return fmt.Sprintf("%s\n\n%s", alert("Invalid input!"), yellow(err.Error()))

	case errors.As(err, &writeErr):
		return fmt.Sprintf("%s\n\n%s", alert("Failed to write file!"), yellow(err.Error()))

	case errors.As(err, &readErr):
		return fmt.Sprintf("%s\n\n%s", alert("Failed to read file!"), yellow(err.Error()))

	case errors.Is(err, domain.ErrHistoryDisabled):
		return fmt.Sprintf("%s\n\n%s", alert("Capture history is disabled."),
			dim("Enable it with: shotctl config set history.enabled true"))

	case errors.Is(err, context.Canceled):
		return yellow("Interrupted.")
	}

	return fmt.Sprintf("%s %s", alert("Error:"), err.Error())
}

func friendlyAPIError(e *client.APIError) string {
	switch e.Code {
	case client.CodeUnauthorized:
		return fmt.Sprintf("%s\n\n%s\n  %s\n\n%s\n  %s",
			alert("Authentication failed!"),
			yellow("Your API key appears to be invalid."),
			e.Message,
			dim("Check your key at:"), cyan(dashboardKeysURL))
	case client.CodeRateLimited:
		return fmt.Sprintf("%s\n\n%s\n\n%s\n  %s",
			alert("Rate limit exceeded!"),
			yellow("You've made too many requests. Please wait a moment and try again."),
			dim("Upgrade your plan for higher limits:"), cyan(dashboardBillingURL))
	case client.CodeValidation:
		return fmt.Sprintf("%s\n\n%s", alert("Invalid request!"), yellow(e.Message))
	case client.CodeNotFound:
		return fmt.Sprintf("%s\n\n%s", alert("Resource not found!"), yellow(e.Message))
	case client.CodeNetwork:
		return fmt.Sprintf("%s\n\n%s\n  %s",
			alert("Connection failed!"),
			yellow(e.Message),
			dim("Check your internet connection and try again."))
	}
	return fmt.Sprintf("%s (HTTP %d)\n\n%s", alert("API Error"), e.StatusCode, e.Message)
}

// printCaptureSummary prints the outcome of one materialized result.
func printCaptureSummary(p *printer, url string, res *service.Materialized) {
	p.println()
	p.success("Screenshot captured!")
	p.printf("  URL: %s\n", cyan(url))
	if res.Outcome.HasDimensions() {
		p.printf("  Dimensions: %dx%d\n", res.Outcome.Width, res.Outcome.Height)
	}
	p.printf("  Size: %s\n", display.FormatSize(res.Outcome.Size))
	if res.Outcome.Path != "" {
		p.printf("  Saved to: %s\n", cyan(res.Outcome.Path))
	}
	if res.MirrorURL != "" {
		p.printf("  Mirrored to: %s\n", cyan(res.MirrorURL))
	}
	if res.DisplayErr != nil {
		p.warning("Could not display image: %v (use --no-display to skip the preview)", res.DisplayErr)
	}
}
