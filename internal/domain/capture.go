package domain

import (
	"errors"
	"time"
)

// CaptureOutcome is the transient result of one completed capture. It is
// never shared between operations or watch iterations.
type CaptureOutcome struct {
	Data   []byte
	Size   int
	Width  int
	Height int
	Path   string
}

// HasDimensions reports whether pixel dimensions could be read from Data.
func (o *CaptureOutcome) HasDimensions() bool {
	return o.Width > 0 && o.Height > 0
}

// WatchSession is the immutable template of a watch run plus the iteration
// counter, which only the watch loop advances.
type WatchSession struct {
	Request     CaptureRequest
	Interval    time.Duration
	MaxCaptures int

	iteration int
}

// NewWatchSession validates the interval and returns a session ready to run.
func NewWatchSession(req CaptureRequest, interval time.Duration, maxCaptures int) (*WatchSession, error) {
	if interval <= 0 {
		return nil, &InvalidDurationError{Value: interval.String()}
	}
	if maxCaptures < 0 {
		return nil, errors.New("max captures must not be negative")
	}
	return &WatchSession{Request: req, Interval: interval, MaxCaptures: maxCaptures}, nil
}

// Iteration returns the number of attempts started so far.
func (s *WatchSession) Iteration() int {
	return s.iteration
}

// Next advances the counter and returns the new attempt number.
func (s *WatchSession) Next() int {
	s.iteration++
	return s.iteration
}

// Exhausted reports whether the configured maximum has been reached.
// An unbounded session is never exhausted.
func (s *WatchSession) Exhausted() bool {
	return s.MaxCaptures > 0 && s.iteration >= s.MaxCaptures
}

// CaptureKind tells which command produced a history record.
type CaptureKind string

const (
	CaptureKindSync    CaptureKind = "capture"
	CaptureKindAsync   CaptureKind = "async"
	CaptureKindBatch   CaptureKind = "batch"
	CaptureKindWatch   CaptureKind = "watch"
	CaptureKindJob     CaptureKind = "job"
	CaptureKindCompose CaptureKind = "compose"
)

// CaptureRecord is one row of the optional local capture history.
type CaptureRecord struct {
	ID        string      `gorm:"type:text;primaryKey" json:"id"`
	Kind      CaptureKind `gorm:"type:text;not null;index" json:"kind"`
	JobID     string      `gorm:"type:text;index" json:"job_id,omitempty"`
	URL       string      `gorm:"type:text;not null" json:"url"`
	Success   bool        `gorm:"not null" json:"success"`
	Path      string      `gorm:"type:text" json:"path,omitempty"`
	Size      int         `json:"size"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Error     string      `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
}

// TableName returns the database table name for CaptureRecord.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (CaptureRecord) TableName() string {
	return "capture_history"
}
