package service

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 2 * time.Second

// StatusFunc observes every non-terminal job snapshot seen while polling.
type StatusFunc func(job *domain.Job)

// JobStatusPoller waits for one remote job to reach a terminal status.
type JobStatusPoller struct {
	api      JobAPI
	interval time.Duration
	timeout  time.Duration
	onStatus StatusFunc
}

// PollerConfig holds polling settings.
type PollerConfig struct {
	Interval time.Duration
	Timeout  time.Duration // 0 polls until a terminal status
	OnStatus StatusFunc
}

// NewJobStatusPoller creates a poller for api.
func NewJobStatusPoller(api JobAPI, cfg PollerConfig) *JobStatusPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &JobStatusPoller{
		api:      api,
		interval: interval,
		timeout:  cfg.Timeout,
		onStatus: cfg.OnStatus,
	}
}

// Wait sleeps one interval, fetches the job and repeats until the job is
// terminal. A completed job's result bytes are downloaded and returned.
// Parameters:
//   - ctx: cancels the wait at any sleep or request.
//   - jobID: remote job identifier.
// Returns:
//   - *domain.Job: last observed snapshot.
//   - []byte: result bytes for a completed job.
//   - error: *domain.JobFailedError, domain.ErrJobCancelled,
//     *domain.PollTimeoutError, a remote error or ctx.Err().
func (p *JobStatusPoller) Wait(ctx context.Context, jobID string) (*domain.Job, []byte, error) {
	parent := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	ctx = logger.SetJobID(ctx, jobID)

	var last *domain.Job
	for {
		if err := sleepCtx(ctx, p.interval); err != nil {
			return last, nil, p.stopErr(parent, jobID, last, err)
		}

		job, err := p.api.GetJob(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return last, nil, p.stopErr(parent, jobID, last, ctx.Err())
			}
			return last, nil, err
		}
		last = job

		switch job.Status {
		case domain.JobStatusCompleted:
			logger.CtxDebug(ctx, "Job completed, downloading result")
			data, err := p.api.GetJobResult(ctx, jobID)
			if err != nil {
				if ctx.Err() != nil {
					return job, nil, p.stopErr(parent, jobID, job, ctx.Err())
				}
				return job, nil, err
			}
			return job, data, nil
		case domain.JobStatusFailed:
			return job, nil, &domain.JobFailedError{
				JobID:   jobID,
				Code:    job.ErrorCode,
				Message: job.FailureMessage(),
			}
		case domain.JobStatusCancelled:
			return job, nil, domain.ErrJobCancelled
		default:
			logger.CtxDebug(ctx, "Job status: %s", job.Status)
			if p.onStatus != nil {
				p.onStatus(job)
			}
		}
	}
}

// stopErr maps a context error. The poller's own deadline becomes a
// PollTimeoutError; cancellation by the caller is returned unchanged.
func (p *JobStatusPoller) stopErr(parent context.Context, jobID string, last *domain.Job, err error) error {
	if p.timeout > 0 && errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		status := domain.JobStatusQueued
		if last != nil {
			status = last.Status
		}
		return &domain.PollTimeoutError{JobID: jobID, After: p.timeout, LastStatus: status}
	}
	return err
}
