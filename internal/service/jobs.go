package service

import (
	"context"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
	"github.com/timmy/shotctl/internal/storage"
)

// JobService inspects and manages existing jobs.
type JobService struct {
	api    JobAdminAPI
	mat    *Materializer
	logger *logger.Logger
}

// NewJobService creates a new JobService.
func NewJobService(api JobAdminAPI, mat *Materializer, log *logger.Logger) *JobService {
	return &JobService{api: api, mat: mat, logger: log}
}

// List returns recent jobs as reported by the service.
func (s *JobService) List(ctx context.Context) ([]domain.Job, error) {
	return s.api.ListJobs(ctx)
}

// Get returns one job.
func (s *JobService) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.api.GetJob(ctx, jobID)
}

// Cancel requests cancellation. The boolean is false when the job had
// already moved on, e.g. completed before the request arrived.
func (s *JobService) Cancel(ctx context.Context, jobID string) (*domain.Job, bool, error) {
	job, err := s.api.CancelJob(ctx, jobID)
	if err != nil {
		return nil, false, err
	}
	cancelled := job.Status == domain.JobStatusCancelled
	logger.FromContextOr(ctx, s.logger).
		WithField(logger.FieldJobID, jobID).
		WithField(logger.FieldStatus, string(job.Status)).
		Info("Cancel requested")
	return job, cancelled, nil
}

// Download returns the result bytes of a job without checking its status
// first. Callers that already hold a completed snapshot use it.
func (s *JobService) Download(ctx context.Context, jobID string) ([]byte, error) {
	return s.api.GetJobResult(ctx, jobID)
}

// ResultOptions controls what happens to a downloaded job result.
type ResultOptions struct {
	OutputPath string
	Display    bool
}

// Result downloads the result of a completed job.
// Parameters:
//   - ctx: cancels both requests.
//   - jobID: remote job identifier.
//   - opts: save and display options.
// Returns:
//   - *domain.Job: job snapshot.
//   - *Materialized: what was done with the bytes.
//   - error: *domain.JobNotCompletedError when the job is not completed,
//     a remote error or a write error.
func (s *JobService) Result(ctx context.Context, jobID string, opts ResultOptions) (*domain.Job, *Materialized, error) {
	job, err := s.api.GetJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != domain.JobStatusCompleted {
		return job, nil, &domain.JobNotCompletedError{JobID: jobID, Status: job.Status}
	}

	data, err := s.api.GetJobResult(ctx, jobID)
	if err != nil {
		return job, nil, err
	}

	res, err := s.mat.Materialize(ctx, MaterializeRequest{
		Kind:    domain.CaptureKindJob,
		JobID:   jobID,
		URL:     job.URL,
		Format:  storage.DetectFormat(data),
		Path:    opts.OutputPath,
		Display: opts.Display,
	}, data)
	return job, res, err
}
