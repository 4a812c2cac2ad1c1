package service

import (
	"context"
	"time"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
	"github.com/timmy/shotctl/internal/storage"
)

// WatchLoop captures the same page repeatedly at a fixed interval.
type WatchLoop struct {
	api    CaptureAPI
	mat    *Materializer
	logger *logger.Logger
	now    func() time.Time
}

// NewWatchLoop creates a new WatchLoop.
func NewWatchLoop(api CaptureAPI, mat *Materializer, log *logger.Logger) *WatchLoop {
	return &WatchLoop{api: api, mat: mat, logger: log, now: time.Now}
}

// WatchOptions controls what happens to each capture.
type WatchOptions struct {
	OutputDir string // empty skips saving
	Display   bool
	OnAttempt func(iteration int)
	OnResult  func(it WatchIteration)
	OnWait    func(d time.Duration)
}

// WatchIteration is the outcome of one attempt.
type WatchIteration struct {
	Iteration  int
	Result     *Materialized // nil when the capture failed
	CaptureErr error
	SaveErr    error
}

// Succeeded reports whether the capture itself worked.
func (it WatchIteration) Succeeded() bool {
	return it.CaptureErr == nil
}

// WatchSummary counts attempts of a finished or interrupted loop.
type WatchSummary struct {
	Attempts  int
	Succeeded int
	Failed    int
}

// NewWatchSession validates a raw interval and builds a session. The URL
// and format are normalized here so nothing remote happens on bad input.
func NewWatchSession(req domain.CaptureRequest, interval string, maxCaptures int) (*domain.WatchSession, error) {
	req, err := validateCaptureRequest(req, false)
	if err != nil {
		return nil, err
	}
	d, err := domain.ParseInterval(interval)
	if err != nil || d <= 0 {
		return nil, &domain.InvalidDurationError{Value: interval}
	}
	return domain.NewWatchSession(req, d, maxCaptures)
}

// Run attempts a capture, reports it, then sleeps the session interval,
// until MaxCaptures attempts were made or ctx is cancelled. A failed capture,
// save or display is reported and the loop goes on.
// Parameters:
//   - ctx: the only way to stop an unbounded session.
//   - session: validated session; its iteration counter is advanced here.
//   - opts: output options and callbacks.
// Returns:
//   - *WatchSummary: attempts made so far.
//   - error: ctx.Err() when cancelled, nil when the maximum was reached.
func (w *WatchLoop) Run(ctx context.Context, session *domain.WatchSession, opts WatchOptions) (*WatchSummary, error) {
	summary := &WatchSummary{}
	req := session.Request
	log := logger.FromContextOr(ctx, w.logger).WithField(logger.FieldURL, req.URL)

	for {
		n := session.Next()
		summary.Attempts = n
		if opts.OnAttempt != nil {
			opts.OnAttempt(n)
		}
		ictx := log.WithField(logger.FieldIteration, n).WithContext(ctx)

		it := w.attempt(ictx, n, req, opts)
		if ctx.Err() != nil && !it.Succeeded() {
			// interrupted, not a failure of the page
			summary.Attempts = n - 1
			return summary, ctx.Err()
		}
		if it.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if opts.OnResult != nil {
			opts.OnResult(it)
		}

		if session.Exhausted() {
			log.WithField(logger.FieldCount, n).Info("Maximum captures reached")
			return summary, nil
		}

		if opts.OnWait != nil {
			opts.OnWait(session.Interval)
		}
		if err := sleepCtx(ctx, session.Interval); err != nil {
			return summary, err
		}
	}
}

func (w *WatchLoop) attempt(ctx context.Context, n int, req domain.CaptureRequest, opts WatchOptions) WatchIteration {
	it := WatchIteration{Iteration: n}
	mreq := MaterializeRequest{
		Kind:    domain.CaptureKindWatch,
		URL:     req.URL,
		Format:  req.Format,
		Display: opts.Display,
	}

	data, err := w.api.Screenshot(ctx, req)
	if err != nil {
		it.CaptureErr = err
		if ctx.Err() == nil {
			logger.CtxWarn(ctx, "Capture failed: %v", err)
			w.mat.RecordFailure(ctx, mreq, err)
		}
		return it
	}

	if opts.OutputDir != "" {
		mreq.Path = storage.WatchFileName(opts.OutputDir, req.URL, w.now(), req.Format)
	}
	res, err := w.mat.Materialize(ctx, mreq, data)
	it.Result = res
	if err != nil {
		it.SaveErr = err
		// still show what was captured
		if opts.Display {
			res.DisplayErr = w.mat.Show(ctx, data)
			res.Displayed = res.DisplayErr == nil
		}
	}
	return it
}
