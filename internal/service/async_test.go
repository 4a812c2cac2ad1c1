package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/shotctl/internal/domain"
)

func TestAsyncWithoutPollingReturnsCreatedJob(t *testing.T) {
	api := &fakeJobAPI{}
	svc := NewAsyncCaptureService(api, NewMaterializer(newMemFiles(), nil, testLogger()), testLogger())

	var created *domain.Job
	res, err := svc.Run(context.Background(), domain.CaptureRequest{URL: "example.com", Format: "JPG"}, AsyncOptions{
		OnCreated: func(j *domain.Job) { created = j },
	})
	require.NoError(t, err)

	assert.Equal(t, "job-1", res.Job.ID)
	assert.Nil(t, res.Result)
	assert.Same(t, res.Job, created)
	require.Len(t, api.created, 1)
	assert.Equal(t, "https://example.com", api.created[0].URL)
	assert.Equal(t, domain.FormatJPEG, api.created[0].Format)

	gets, _ := api.calls()
	assert.Zero(t, gets)
}

func TestAsyncPollsAndSaves(t *testing.T) {
	api := &fakeJobAPI{
		snapshots: []domain.Job{{Status: domain.JobStatusProcessing}, {Status: domain.JobStatusCompleted}},
		result:    []byte("img"),
	}
	files := newMemFiles()
	hist := &memHistory{}
	svc := NewAsyncCaptureService(api, NewMaterializer(files, nil, testLogger(), WithHistory(hist)), testLogger())

	var statuses int
	res, err := svc.Run(context.Background(), domain.CaptureRequest{URL: "https://example.com"}, AsyncOptions{
		Poll:         true,
		PollInterval: tick,
		OutputPath:   "shot.png",
		OnStatus:     func(*domain.Job) { statuses++ },
	})
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, res.Job.Status)
	require.NotNil(t, res.Result)
	assert.Equal(t, "shot.png", res.Result.Outcome.Path)
	assert.Equal(t, []byte("img"), files.files["shot.png"])
	assert.Equal(t, 1, statuses)

	require.Len(t, hist.records, 1)
	assert.Equal(t, domain.CaptureKindAsync, hist.records[0].Kind)
	assert.Equal(t, "job-1", hist.records[0].JobID)
}

func TestAsyncJobFailure(t *testing.T) {
	api := &fakeJobAPI{snapshots: []domain.Job{{Status: domain.JobStatusFailed, ErrorMessage: "Navigation timeout"}}}
	files := newMemFiles()
	svc := NewAsyncCaptureService(api, NewMaterializer(files, nil, testLogger()), testLogger())

	res, err := svc.Run(context.Background(), domain.CaptureRequest{URL: "example.com"}, AsyncOptions{
		Poll: true, PollInterval: tick, OutputPath: "shot.png",
	})
	var jf *domain.JobFailedError
	require.ErrorAs(t, err, &jf)
	assert.Equal(t, "screenshot job failed: Navigation timeout", err.Error())
	assert.Equal(t, domain.JobStatusFailed, res.Job.Status)
	assert.Zero(t, files.count())
}

func TestAsyncValidationIsLocal(t *testing.T) {
	api := &fakeJobAPI{}
	svc := NewAsyncCaptureService(api, NewMaterializer(newMemFiles(), nil, testLogger()), testLogger())

	_, err := svc.Run(context.Background(), domain.CaptureRequest{URL: "example.com", Format: "gif"}, AsyncOptions{})
	var fe *domain.InvalidFormatError
	require.True(t, errors.As(err, &fe))
	assert.Empty(t, api.created)
}
