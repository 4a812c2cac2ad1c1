package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/timmy/shotctl/internal/client"
	"github.com/timmy/shotctl/internal/domain"
)

const tick = time.Millisecond

func TestPollerStopsAtFirstTerminalStatus(t *testing.T) {
	tests := []struct {
		name      string
		snapshots []domain.Job
		wantErr   func(error) bool
		wantData  bool
	}{
		{
			name: "completed",
			snapshots: []domain.Job{
				{Status: domain.JobStatusQueued},
				{Status: domain.JobStatusProcessing},
				{Status: domain.JobStatusCompleted},
			},
			wantErr:  func(err error) bool { return err == nil },
			wantData: true,
		},
		{
			name: "failed",
			snapshots: []domain.Job{
				{Status: domain.JobStatusProcessing},
				{Status: domain.JobStatusFailed, ErrorCode: "nav_timeout", ErrorMessage: "Navigation timeout"},
			},
			wantErr: func(err error) bool {
				var jf *domain.JobFailedError
				return errors.As(err, &jf) && jf.Code == "nav_timeout" && jf.Message == "Navigation timeout"
			},
		},
		{
			name: "failed without detail",
			snapshots: []domain.Job{
				{Status: domain.JobStatusFailed},
			},
			wantErr: func(err error) bool {
				var jf *domain.JobFailedError
				return errors.As(err, &jf) && jf.Message == domain.UnknownErrorMessage
			},
		},
		{
			name: "cancelled",
			snapshots: []domain.Job{
				{Status: domain.JobStatusQueued},
				{Status: domain.JobStatusCancelled},
			},
			wantErr: func(err error) bool { return errors.Is(err, domain.ErrJobCancelled) },
		},
		{
			name: "unknown status keeps polling",
			snapshots: []domain.Job{
				{Status: domain.JobStatus("warming_up")},
				{Status: domain.JobStatusCompleted},
			},
			wantErr:  func(err error) bool { return err == nil },
			wantData: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// trailing snapshot would be observed if polling continued
			snaps := append(append([]domain.Job{}, tt.snapshots...), domain.Job{Status: domain.JobStatusProcessing})
			api := &fakeJobAPI{snapshots: snaps, result: []byte("img")}

			var seen []domain.JobStatus
			p := NewJobStatusPoller(api, PollerConfig{Interval: tick, OnStatus: func(j *domain.Job) {
				seen = append(seen, j.Status)
			}})
			job, data, err := p.Wait(context.Background(), "job-7")

			if !tt.wantErr(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			gets, results := api.calls()
			if gets != len(tt.snapshots) {
				t.Errorf("GetJob called %d times, want %d", gets, len(tt.snapshots))
			}
			if len(seen) != len(tt.snapshots)-1 {
				t.Errorf("observer saw %d statuses, want %d", len(seen), len(tt.snapshots)-1)
			}
			if tt.wantData {
				if string(data) != "img" || results != 1 {
					t.Errorf("data = %q, result calls = %d", data, results)
				}
			} else if results != 0 {
				t.Errorf("result downloaded for non-completed job")
			}
			if job == nil || job.ID != "job-7" {
				t.Errorf("unexpected final job %+v", job)
			}
		})
	}
}

func TestPollerSurfacesRemoteErrors(t *testing.T) {
	remote := &client.APIError{Code: client.CodeRateLimited, StatusCode: 429, Message: "slow down"}
	api := &fakeJobAPI{getErr: remote}

	_, _, err := NewJobStatusPoller(api, PollerConfig{Interval: tick}).Wait(context.Background(), "job-1")
	if !client.IsCode(err, client.CodeRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if gets, _ := api.calls(); gets != 1 {
		t.Errorf("remote error must not be retried, got %d calls", gets)
	}
}

func TestPollerTimeout(t *testing.T) {
	api := &fakeJobAPI{snapshots: []domain.Job{{Status: domain.JobStatusProcessing}}}
	p := NewJobStatusPoller(api, PollerConfig{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond})

	_, _, err := p.Wait(context.Background(), "job-1")
	var timeout *domain.PollTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected PollTimeoutError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("timeout should match context.DeadlineExceeded")
	}
	if timeout.LastStatus != domain.JobStatusProcessing {
		t.Errorf("LastStatus = %q", timeout.LastStatus)
	}
}

func TestPollerHonoursCancellation(t *testing.T) {
	api := &fakeJobAPI{snapshots: []domain.Job{{Status: domain.JobStatusProcessing}}}
	ctx, cancel := context.WithCancel(context.Background())

	p := NewJobStatusPoller(api, PollerConfig{Interval: tick, OnStatus: func(*domain.Job) {
		if gets, _ := api.calls(); gets == 3 {
			cancel()
		}
	}})
	_, _, err := p.Wait(ctx, "job-1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if gets, _ := api.calls(); gets != 3 {
		t.Errorf("polled %d times after cancellation, want 3", gets)
	}
}
