package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/shotctl/internal/domain"
)

func scheduleID(id string) func(*resty.Request) {
	return func(r *resty.Request) { r.SetPathParam("id", id) }
}

// ListSchedules returns every schedule of the account.
func (c *Client) ListSchedules(ctx context.Context) ([]domain.Schedule, error) {
	var out struct {
		Schedules []domain.Schedule `json:"schedules"`
	}
	if err := call(ctx, c.reads, http.MethodGet, "/v1/schedules", nil, &out); err != nil {
		return nil, err
	}
	return out.Schedules, nil
}

// CreateSchedule registers a recurring capture.
func (c *Client) CreateSchedule(ctx context.Context, req domain.CreateScheduleRequest) (*domain.Schedule, error) {
	var s domain.Schedule
	err := call(ctx, c.writes, http.MethodPost, "/v1/schedules", func(r *resty.Request) { r.SetBody(req) }, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSchedule fetches one schedule.
func (c *Client) GetSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	var s domain.Schedule
	if err := call(ctx, c.reads, http.MethodGet, "/v1/schedules/{id}", scheduleID(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSchedule changes the fields set in req.
func (c *Client) UpdateSchedule(ctx context.Context, id string, req domain.UpdateScheduleRequest) (*domain.Schedule, error) {
	var s domain.Schedule
	err := call(ctx, c.writes, http.MethodPatch, "/v1/schedules/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id).SetBody(req)
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return call(ctx, c.writes, http.MethodDelete, "/v1/schedules/{id}", scheduleID(id), nil)
}

// PauseSchedule stops future runs until resumed.
func (c *Client) PauseSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	return c.scheduleAction(ctx, id, "pause")
}

// ResumeSchedule reactivates a paused schedule.
func (c *Client) ResumeSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	return c.scheduleAction(ctx, id, "resume")
}

// TriggerSchedule runs a schedule now, outside its cron timing.
func (c *Client) TriggerSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	return c.scheduleAction(ctx, id, "trigger")
}

func (c *Client) scheduleAction(ctx context.Context, id, action string) (*domain.Schedule, error) {
	var s domain.Schedule
	if err := call(ctx, c.writes, http.MethodPost, "/v1/schedules/{id}/"+action, scheduleID(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetScheduleHistory returns up to limit recent runs; 0 leaves the limit to
// the service.
func (c *Client) GetScheduleHistory(ctx context.Context, id string, limit int) (*domain.ScheduleHistory, error) {
	var h domain.ScheduleHistory
	err := call(ctx, c.reads, http.MethodGet, "/v1/schedules/{id}/history", func(r *resty.Request) {
		r.SetPathParam("id", id)
		if limit > 0 {
			r.SetQueryParam("limit", strconv.Itoa(limit))
		}
	}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
