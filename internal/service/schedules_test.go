package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/shotctl/internal/domain"
)

type fakeScheduleAPI struct {
	created *domain.CreateScheduleRequest
	updated *domain.UpdateScheduleRequest
	deleted []string
	calls   int
}

func (f *fakeScheduleAPI) ListSchedules(ctx context.Context) ([]domain.Schedule, error) {
	f.calls++
	return []domain.Schedule{{ID: "s1"}}, nil
}

func (f *fakeScheduleAPI) CreateSchedule(ctx context.Context, req domain.CreateScheduleRequest) (*domain.Schedule, error) {
	f.calls++
	f.created = &req
	return &domain.Schedule{ID: "s1", Name: req.Name, URL: req.URL, Schedule: req.Schedule, Status: domain.ScheduleActive}, nil
}

func (f *fakeScheduleAPI) GetSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	f.calls++
	return &domain.Schedule{ID: id}, nil
}

func (f *fakeScheduleAPI) UpdateSchedule(ctx context.Context, id string, req domain.UpdateScheduleRequest) (*domain.Schedule, error) {
	f.calls++
	f.updated = &req
	return &domain.Schedule{ID: id}, nil
}

func (f *fakeScheduleAPI) DeleteSchedule(ctx context.Context, id string) error {
	f.calls++
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeScheduleAPI) PauseSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	f.calls++
	return &domain.Schedule{ID: id, Status: domain.SchedulePaused}, nil
}

func (f *fakeScheduleAPI) ResumeSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	f.calls++
	return &domain.Schedule{ID: id, Status: domain.ScheduleActive}, nil
}

func (f *fakeScheduleAPI) TriggerSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	f.calls++
	return &domain.Schedule{ID: id}, nil
}

func (f *fakeScheduleAPI) GetScheduleHistory(ctx context.Context, id string, limit int) (*domain.ScheduleHistory, error) {
	f.calls++
	return &domain.ScheduleHistory{TotalExecutions: limit}, nil
}

func TestScheduleCreateNormalizesURL(t *testing.T) {
	api := &fakeScheduleAPI{}
	svc := NewScheduleService(api, testLogger())

	s, err := svc.Create(context.Background(), domain.CreateScheduleRequest{Name: "home", URL: "example.com", Schedule: "0 9 * * *"})
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	require.NotNil(t, api.created)
	assert.Equal(t, "https://example.com", api.created.URL)
}

func TestScheduleCreateRejectsBeforeRemoteCall(t *testing.T) {
	tests := []struct {
		name string
		req  domain.CreateScheduleRequest
	}{
		{"no name", domain.CreateScheduleRequest{URL: "example.com", Schedule: "@daily"}},
		{"bad cron", domain.CreateScheduleRequest{Name: "n", URL: "example.com", Schedule: "every day"}},
		{"bad url", domain.CreateScheduleRequest{Name: "n", URL: "https://", Schedule: "@daily"}},
		{"retention too long", domain.CreateScheduleRequest{Name: "n", URL: "example.com", Schedule: "@daily", RetentionDays: 400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeScheduleAPI{}
			_, err := NewScheduleService(api, testLogger()).Create(context.Background(), tt.req)
			require.Error(t, err)
			assert.Zero(t, api.calls)
		})
	}
}

func TestScheduleUpdateSendsOnlySetFields(t *testing.T) {
	api := &fakeScheduleAPI{}
	svc := NewScheduleService(api, testLogger())

	_, err := svc.Update(context.Background(), "s1", domain.UpdateScheduleRequest{})
	require.Error(t, err)
	assert.Zero(t, api.calls)

	url := "example.org"
	_, err = svc.Update(context.Background(), "s1", domain.UpdateScheduleRequest{URL: &url})
	require.NoError(t, err)
	require.NotNil(t, api.updated)
	assert.Equal(t, "https://example.org", *api.updated.URL)
	assert.Nil(t, api.updated.Name)
	assert.Nil(t, api.updated.Schedule)
}

func TestScheduleLifecycle(t *testing.T) {
	api := &fakeScheduleAPI{}
	svc := NewScheduleService(api, testLogger())
	ctx := context.Background()

	paused, err := svc.Pause(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SchedulePaused, paused.Status)

	resumed, err := svc.Resume(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleActive, resumed.Status)

	_, err = svc.Trigger(ctx, "s1")
	require.NoError(t, err)

	h, err := svc.History(ctx, "s1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, h.TotalExecutions)

	require.NoError(t, svc.Delete(ctx, "s1"))
	assert.Equal(t, []string{"s1"}, api.deleted)
}
