package service

import (
	"context"
	"time"

	"github.com/timmy/shotctl/internal/domain"
)

// CaptureAPI takes synchronous screenshots.
type CaptureAPI interface {
	Screenshot(ctx context.Context, req domain.CaptureRequest) ([]byte, error)
}

// JobAPI drives a single asynchronous job.
type JobAPI interface {
	CreateJob(ctx context.Context, req domain.CaptureRequest) (*domain.Job, error)
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	GetJobResult(ctx context.Context, jobID string) ([]byte, error)
}

// JobAdminAPI adds listing and cancellation to JobAPI.
type JobAdminAPI interface {
	JobAPI
	ListJobs(ctx context.Context) ([]domain.Job, error)
	CancelJob(ctx context.Context, jobID string) (*domain.Job, error)
}

// BulkAPI creates and tracks bulk jobs. Results of sub-jobs are downloaded
// through the single-job result endpoint.
type BulkAPI interface {
	CreateBulkJob(ctx context.Context, req domain.BulkRequest) (*domain.BulkJob, error)
	GetBulkJob(ctx context.Context, bulkID string) (*domain.BulkJob, error)
	GetJobResult(ctx context.Context, jobID string) ([]byte, error)
}

// ComposeAPI renders compositions and downloads stored results.
type ComposeAPI interface {
	Compose(ctx context.Context, req domain.ComposeRequest) (*domain.ComposeResult, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// ScheduleAPI manages recurring captures.
type ScheduleAPI interface {
	ListSchedules(ctx context.Context) ([]domain.Schedule, error)
	CreateSchedule(ctx context.Context, req domain.CreateScheduleRequest) (*domain.Schedule, error)
	GetSchedule(ctx context.Context, id string) (*domain.Schedule, error)
	UpdateSchedule(ctx context.Context, id string, req domain.UpdateScheduleRequest) (*domain.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	PauseSchedule(ctx context.Context, id string) (*domain.Schedule, error)
	ResumeSchedule(ctx context.Context, id string) (*domain.Schedule, error)
	TriggerSchedule(ctx context.Context, id string) (*domain.Schedule, error)
	GetScheduleHistory(ctx context.Context, id string, limit int) (*domain.ScheduleHistory, error)
}

// Displayer shows image bytes to the user.
type Displayer interface {
	DisplayBytes(data []byte) error
}

// FileSaver persists bytes at a path, creating parent directories.
type FileSaver interface {
	Save(path string, data []byte) error
}

// HistoryRecorder stores capture outcomes.
type HistoryRecorder interface {
	Record(ctx context.Context, rec *domain.CaptureRecord) error
}

// Progress reports how many units of a known total are done.
type Progress interface {
	Set(n int)
	Finish()
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
