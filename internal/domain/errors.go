package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// UnknownErrorMessage is used when the service reports a failure without detail.
const UnknownErrorMessage = "Unknown error"

var (
	// ErrNoAPIKey means no API key was found on the command line, in the
	// environment or in the config file.
	ErrNoAPIKey = errors.New("no API key found")

	// ErrNoURLs means a batch was started without any URL.
	ErrNoURLs = errors.New("no URLs provided")

	// ErrJobCancelled is returned when a polled job ends cancelled.
	ErrJobCancelled = errors.New("screenshot job was cancelled")

	// ErrAllItemsFailed is returned when no item of a batch succeeded.
	ErrAllItemsFailed = errors.New("all screenshots failed")

	// ErrHistoryDisabled is returned when history is queried but not enabled.
	ErrHistoryDisabled = errors.New("capture history is disabled")
)

// InvalidURLError reports an input that is not a URL even after scheme prefixing.
type InvalidURLError struct {
	Input string
	Err   error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL: %s", e.Input)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// InvalidFormatError reports an unsupported image format.
type InvalidFormatError struct {
	Value    string
	AllowPDF bool
}

func (e *InvalidFormatError) Error() string {
	if e.AllowPDF {
		return fmt.Sprintf("invalid format %q: use png, jpeg, webp, or pdf", e.Value)
	}
	return fmt.Sprintf("invalid format %q: use png, jpeg, or webp", e.Value)
}

// InvalidOptionError reports an invalid value for an enumerated option.
type InvalidOptionError struct {
	Option  string
	Value   string
	Allowed string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s %q: use %s", e.Option, e.Value, e.Allowed)
}

// InvalidDurationError reports an unparsable or non-positive interval.
type InvalidDurationError struct {
	Value string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %q (examples: 5s, 30s, 1m 30s, 1day)", e.Value)
}

// TooManyURLsError is returned before any remote call when a batch exceeds MaxBulkURLs.
type TooManyURLsError struct {
	Count int
	Max   int
}

func (e *TooManyURLsError) Error() string {
	return fmt.Sprintf("too many URLs (%d): maximum is %d per batch", e.Count, e.Max)
}

// JobFailedError carries the remote failure detail of a job that ended failed.
type JobFailedError struct {
	JobID   string
	Code    string
	Message string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("screenshot job failed: %s", e.Message)
}

// PollTimeoutError is returned when a job is still running when the poll
// deadline passes. It matches context.DeadlineExceeded.
type PollTimeoutError struct {
	JobID      string
	After      time.Duration
	LastStatus JobStatus
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for job %s (last status: %s)", e.After, e.JobID, e.LastStatus)
}

func (e *PollTimeoutError) Unwrap() error { return context.DeadlineExceeded }

// JobNotCompletedError is returned when a result is requested for an unfinished job.
type JobNotCompletedError struct {
	JobID  string
	Status JobStatus
}

func (e *JobNotCompletedError) Error() string {
	return fmt.Sprintf("job %s is not completed (current status: %s)", e.JobID, e.Status)
}

// WriteError names the path that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError names the input file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
