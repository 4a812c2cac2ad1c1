package service

import (
	"context"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
)

// ScheduleService validates schedule changes before sending them.
type ScheduleService struct {
	api    ScheduleAPI
	logger *logger.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(api ScheduleAPI, log *logger.Logger) *ScheduleService {
	return &ScheduleService{api: api, logger: log}
}

func (s *ScheduleService) log(ctx context.Context, id string) *logger.Logger {
	return logger.FromContextOr(ctx, s.logger).WithField(logger.FieldScheduleID, id)
}

// List returns every schedule.
func (s *ScheduleService) List(ctx context.Context) ([]domain.Schedule, error) {
	return s.api.ListSchedules(ctx)
}

// Get returns one schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*domain.Schedule, error) {
	return s.api.GetSchedule(ctx, id)
}

// Create validates req locally, so a bad cron expression or URL never
// reaches the service.
func (s *ScheduleService) Create(ctx context.Context, req domain.CreateScheduleRequest) (*domain.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	created, err := s.api.CreateSchedule(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log(ctx, created.ID).WithField(logger.FieldURL, created.URL).Info("Schedule created")
	return created, nil
}

// Update validates and sends the fields set in req.
func (s *ScheduleService) Update(ctx context.Context, id string, req domain.UpdateScheduleRequest) (*domain.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateSchedule(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.log(ctx, id).Info("Schedule updated")
	return updated, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteSchedule(ctx, id); err != nil {
		return err
	}
	s.log(ctx, id).Info("Schedule deleted")
	return nil
}

// Pause stops future runs.
func (s *ScheduleService) Pause(ctx context.Context, id string) (*domain.Schedule, error) {
	return s.api.PauseSchedule(ctx, id)
}

// Resume reactivates a paused schedule.
func (s *ScheduleService) Resume(ctx context.Context, id string) (*domain.Schedule, error) {
	return s.api.ResumeSchedule(ctx, id)
}

// Trigger runs a schedule now.
func (s *ScheduleService) Trigger(ctx context.Context, id string) (*domain.Schedule, error) {
	sched, err := s.api.TriggerSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log(ctx, id).Info("Schedule triggered")
	return sched, nil
}

// History returns up to limit recent runs.
func (s *ScheduleService) History(ctx context.Context, id string, limit int) (*domain.ScheduleHistory, error) {
	return s.api.GetScheduleHistory(ctx, id, limit)
}
