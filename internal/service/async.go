package service

import (
	"context"
	"time"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
)

// AsyncCaptureService submits a capture job and optionally waits for it.
type AsyncCaptureService struct {
	api    JobAPI
	mat    *Materializer
	logger *logger.Logger
}

// NewAsyncCaptureService creates a new AsyncCaptureService.
func NewAsyncCaptureService(api JobAPI, mat *Materializer, log *logger.Logger) *AsyncCaptureService {
	return &AsyncCaptureService{api: api, mat: mat, logger: log}
}

// AsyncOptions controls polling and what happens to the result.
type AsyncOptions struct {
	Poll         bool
	PollInterval time.Duration
	Timeout      time.Duration
	OutputPath   string
	Display      bool
	OnCreated    func(job *domain.Job)
	OnStatus     StatusFunc
}

// AsyncResult is the created job and, when polled, what was done with its result.
type AsyncResult struct {
	Job    *domain.Job
	Result *Materialized // nil when not polling
}

// Run validates req, creates the job and, when opts.Poll is set, waits for
// it and materializes the result.
// Parameters:
//   - ctx: cancels creation, polling and download.
//   - req: capture request; URL and format are validated here.
//   - opts: polling and output options.
// Returns:
//   - *AsyncResult: the job snapshot and optional materialized result.
//   - error: validation, remote, job or write error.
func (s *AsyncCaptureService) Run(ctx context.Context, req domain.CaptureRequest, opts AsyncOptions) (*AsyncResult, error) {
	req, err := validateCaptureRequest(req, true)
	if err != nil {
		return nil, err
	}

	log := logger.FromContextOr(ctx, s.logger).WithField(logger.FieldURL, req.URL)
	ctx = log.WithContext(ctx)

	job, err := s.api.CreateJob(ctx, req)
	if err != nil {
		return nil, err
	}
	log.WithField(logger.FieldJobID, job.ID).Info("Async job created")
	if opts.OnCreated != nil {
		opts.OnCreated(job)
	}

	result := &AsyncResult{Job: job}
	if !opts.Poll {
		return result, nil
	}

	poller := NewJobStatusPoller(s.api, PollerConfig{
		Interval: opts.PollInterval,
		Timeout:  opts.Timeout,
		OnStatus: opts.OnStatus,
	})
	final, data, err := poller.Wait(ctx, job.ID)
	if final != nil {
		result.Job = final
	}
	mreq := MaterializeRequest{
		Kind:    domain.CaptureKindAsync,
		JobID:   job.ID,
		URL:     req.URL,
		Format:  req.Format,
		Path:    opts.OutputPath,
		Display: opts.Display,
	}
	if err != nil {
		s.mat.RecordFailure(ctx, mreq, err)
		return result, err
	}

	mat, err := s.mat.Materialize(ctx, mreq, data)
	result.Result = mat
	return result, err
}

// validateCaptureRequest normalizes the URL and format of req.
func validateCaptureRequest(req domain.CaptureRequest, allowPDF bool) (domain.CaptureRequest, error) {
	u, err := domain.NormalizeURL(req.URL)
	if err != nil {
		return req, err
	}
	req.URL = u

	format, err := domain.ParseImageFormat(string(req.Format), allowPDF)
	if err != nil {
		return req, err
	}
	req.Format = format
	return req, nil
}
