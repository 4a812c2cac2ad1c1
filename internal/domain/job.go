package domain

import (
	"encoding/json"
	"strings"
)

// JobStatus represents the status of a remote screenshot job.
// Values include JobStatusQueued, JobStatusProcessing, JobStatusCompleted,
// JobStatusFailed, and JobStatusCancelled. Unknown values sent by the service
// are kept verbatim and treated as still in progress.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// ParseJobStatus maps a wire status onto a JobStatus, ignoring case.
func ParseJobStatus(s string) JobStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "queued", "pending":
		return JobStatusQueued
	case "processing", "running":
		return JobStatusProcessing
	case "completed":
		return JobStatusCompleted
	case "failed":
		return JobStatusFailed
	case "cancelled", "canceled":
		return JobStatusCancelled
	default:
		return JobStatus(s)
	}
}

// IsTerminal reports whether the status is one of completed, failed or cancelled.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// UnmarshalJSON normalizes the wire representation.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseJobStatus(raw)
	return nil
}

// Job is a read-only snapshot of a remote screenshot job. It only changes by
// fetching it again.
type Job struct {
	ID           string    `json:"id"`
	Status       JobStatus `json:"status"`
	URL          string    `json:"url,omitempty"`
	StatusURL    string    `json:"statusUrl,omitempty"`
	ResultURL    string    `json:"resultUrl,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    string    `json:"createdAt,omitempty"`
	StartedAt    string    `json:"startedAt,omitempty"`
	CompletedAt  string    `json:"completedAt,omitempty"`
	ExpiresAt    string    `json:"expiresAt,omitempty"`
}

// FailureMessage returns the remote error message or a placeholder.
func (j *Job) FailureMessage() string {
	if j.ErrorMessage != "" {
		return j.ErrorMessage
	}
	return UnknownErrorMessage
}
