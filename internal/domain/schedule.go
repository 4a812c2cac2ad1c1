package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Retention bounds for scheduled captures, in days.
const (
	MinRetentionDays = 1
	MaxRetentionDays = 365
)

// Schedule states as reported by the service.
const (
	ScheduleActive = "ACTIVE"
	SchedulePaused = "PAUSED"
)

// Schedule is a recurring capture kept by the service.
type Schedule struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	URL                 string `json:"url"`
	Schedule            string `json:"schedule"`
	ScheduleDescription string `json:"scheduleDescription,omitempty"`
	Timezone            string `json:"timezone,omitempty"`
	Status              string `json:"status"`
	NextExecutionAt     string `json:"nextExecutionAt,omitempty"`
	LastExecutedAt      string `json:"lastExecutedAt,omitempty"`
	ExecutionCount      int    `json:"executionCount,omitempty"`
	SuccessCount        int    `json:"successCount,omitempty"`
	FailureCount        int    `json:"failureCount,omitempty"`
	RetentionDays       int    `json:"retentionDays,omitempty"`
	CreatedAt           string `json:"createdAt,omitempty"`
}

// TimezoneOrUTC returns the schedule timezone, UTC when unset.
func (s *Schedule) TimezoneOrUTC() string {
	if s.Timezone == "" {
		return "UTC"
	}
	return s.Timezone
}

// CreateScheduleRequest registers a new schedule.
type CreateScheduleRequest struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Schedule      string `json:"schedule"`
	Timezone      string `json:"timezone,omitempty"`
	Device        string `json:"device,omitempty"`
	RetentionDays int    `json:"retentionDays,omitempty"`
	WebhookURL    string `json:"webhookUrl,omitempty"`
}

// Validate normalizes the URL and checks the cron expression and retention.
func (r *CreateScheduleRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("schedule name is required")
	}
	u, err := NormalizeURL(r.URL)
	if err != nil {
		return err
	}
	r.URL = u
	if err := ValidateCron(r.Schedule); err != nil {
		return err
	}
	if r.RetentionDays != 0 {
		return validateRetention(r.RetentionDays)
	}
	return nil
}

// UpdateScheduleRequest changes only the fields that are set.
type UpdateScheduleRequest struct {
	Name          *string `json:"name,omitempty"`
	URL           *string `json:"url,omitempty"`
	Schedule      *string `json:"schedule,omitempty"`
	Timezone      *string `json:"timezone,omitempty"`
	RetentionDays *int    `json:"retentionDays,omitempty"`
}

// Empty reports whether the update would change nothing.
func (r *UpdateScheduleRequest) Empty() bool {
	return r.Name == nil && r.URL == nil && r.Schedule == nil && r.Timezone == nil && r.RetentionDays == nil
}

// Validate normalizes a new URL and checks a new cron expression and retention.
func (r *UpdateScheduleRequest) Validate() error {
	if r.Empty() {
		return errors.New("nothing to update: pass at least one of --name, --url, --cron, --timezone, --retention-days")
	}
	if r.URL != nil {
		u, err := NormalizeURL(*r.URL)
		if err != nil {
			return err
		}
		r.URL = &u
	}
	if r.Schedule != nil {
		if err := ValidateCron(*r.Schedule); err != nil {
			return err
		}
	}
	if r.RetentionDays != nil {
		return validateRetention(*r.RetentionDays)
	}
	return nil
}

// ValidateCron accepts standard five-field cron expressions and descriptors
// such as @daily.
func ValidateCron(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return &InvalidOptionError{Option: "cron expression", Value: expr, Allowed: `five fields, e.g. "0 9 * * *" (daily at 9am)`}
	}
	return nil
}

func validateRetention(days int) error {
	if days < MinRetentionDays || days > MaxRetentionDays {
		return &InvalidOptionError{
			Option:  "retention days",
			Value:   fmt.Sprint(days),
			Allowed: fmt.Sprintf("%d-%d", MinRetentionDays, MaxRetentionDays),
		}
	}
	return nil
}

// ScheduleExecution is one past run of a schedule.
type ScheduleExecution struct {
	ExecutedAt   string `json:"executedAt"`
	Status       string `json:"status"`
	ResultURL    string `json:"resultUrl,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	RenderTimeMs int    `json:"renderTimeMs,omitempty"`
}

// ScheduleHistory lists recent runs of a schedule.
type ScheduleHistory struct {
	TotalExecutions int                 `json:"totalExecutions"`
	Executions      []ScheduleExecution `json:"executions"`
}
