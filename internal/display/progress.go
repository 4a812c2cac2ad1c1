package display

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Spinner messages
const (
	MsgCreatingJob   = "Creating async job..."
	MsgCreatingBatch = "Creating batch job..."
	MsgWaiting       = "Waiting for job to complete..."
)

// Spinner is an indeterminate indicator for one remote operation.
type Spinner struct {
	bar     *progressbar.ProgressBar
	stopped bool
}

// NewSpinner starts a spinner on out.
func NewSpinner(out io.Writer, message string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)
	_ = bar.RenderBlank()
	return &Spinner{bar: bar}
}

// Update changes the message and advances the animation.
func (s *Spinner) Update(message string) {
	s.bar.Describe(message)
	_ = s.bar.Add(1)
}

// Stop clears the spinner. Later calls do nothing.
func (s *Spinner) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	_ = s.bar.Finish()
}

// BatchProgress shows how many sub-jobs of a bulk job have completed.
type BatchProgress struct {
	bar *progressbar.ProgressBar
}

// NewBatchProgress creates a bar with total steps.
func NewBatchProgress(out io.Writer, total int, message string) *BatchProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[cyan]━[reset]",
			SaucerHead:    "[cyan]╺[reset]",
			SaucerPadding: " ",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(out, "\n")
		}),
	)
	_ = bar.RenderBlank()
	return &BatchProgress{bar: bar}
}

// Set moves the bar to n completed steps.
func (p *BatchProgress) Set(n int) {
	_ = p.bar.Set(n)
}

// Finish completes the bar.
func (p *BatchProgress) Finish() {
	_ = p.bar.Finish()
}
