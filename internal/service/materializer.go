package service

import (
	"context"
	"path/filepath"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
	"github.com/timmy/shotctl/internal/storage"
)

// Materializer turns downloaded bytes into a saved file, an optional bucket
// copy, an optional terminal preview and an optional history row.
type Materializer struct {
	files   FileSaver
	display Displayer
	mirror  storage.ObjectStorage
	history HistoryRecorder
	logger  *logger.Logger
}

// MaterializerOption configures optional collaborators.
type MaterializerOption func(*Materializer)

// WithMirror uploads every saved file to store.
func WithMirror(store storage.ObjectStorage) MaterializerOption {
	return func(m *Materializer) { m.mirror = store }
}

// WithHistory records every outcome in rec.
func WithHistory(rec HistoryRecorder) MaterializerOption {
	return func(m *Materializer) { m.history = rec }
}

// NewMaterializer creates a Materializer. disp may be nil when previews
// are never requested.
func NewMaterializer(files FileSaver, disp Displayer, log *logger.Logger, opts ...MaterializerOption) *Materializer {
	m := &Materializer{files: files, display: disp, logger: log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Materializer) log(ctx context.Context) *logger.Logger {
	return logger.FromContextOr(ctx, m.logger)
}

// MaterializeRequest describes where a result came from and what to do with it.
type MaterializeRequest struct {
	Kind    domain.CaptureKind
	JobID   string
	URL     string
	Format  domain.ImageFormat
	Path    string // empty skips saving
	Display bool
}

// Materialized is what happened to one result.
type Materialized struct {
	Outcome    domain.CaptureOutcome
	MirrorURL  string
	Displayed  bool
	DisplayErr error
}

// Describe reports the size and, when the header can be read, the pixel
// dimensions of data.
func Describe(data []byte) domain.CaptureOutcome {
	out := domain.CaptureOutcome{Data: data, Size: len(data)}
	if w, h, err := display.Dimensions(data); err == nil {
		out.Width, out.Height = w, h
	}
	return out
}

// Save writes data to path and mirrors it when a bucket is configured.
// Only the local write can fail the call.
// Parameters:
//   - ctx: context for the mirror upload.
//   - path: destination file.
//   - data: bytes to write.
//   - format: used for the mirrored object's content type; empty sniffs data.
// Returns:
//   - string: mirrored object URL, empty when not mirrored.
//   - error: *domain.WriteError when the local write fails.
func (m *Materializer) Save(ctx context.Context, path string, data []byte, format domain.ImageFormat) (string, error) {
	if err := m.files.Save(path, data); err != nil {
		return "", err
	}
	logger.With(logger.Fields{"path": path}).WithSize(len(data)).Debug(ctx, "Capture saved")
	if format == "" {
		format = storage.DetectFormat(data)
	}
	if m.mirror == nil {
		return "", nil
	}

	key := m.mirror.Key(filepath.Base(path))
	if err := m.mirror.Upload(ctx, key, data, storage.ContentType(format)); err != nil {
		m.log(ctx).WithError(err).WithField("key", key).Warn("Failed to mirror capture")
		return "", nil
	}
	return m.mirror.GetURL(key), nil
}

// Show hands data to the display collaborator. A failure is logged and
// returned for reporting; callers never treat it as fatal.
func (m *Materializer) Show(ctx context.Context, data []byte) error {
	if m.display == nil {
		return nil
	}
	if err := m.display.DisplayBytes(data); err != nil {
		m.log(ctx).WithError(err).Warn("Failed to display image")
		return err
	}
	return nil
}

// Materialize describes, saves, mirrors, displays and records one result.
// Parameters:
//   - ctx: context for uploads and history writes.
//   - req: origin of the bytes and the requested side effects.
//   - data: result bytes.
// Returns:
//   - *Materialized: outcome, including any display failure.
//   - error: *domain.WriteError when saving fails; the outcome is still returned.
func (m *Materializer) Materialize(ctx context.Context, req MaterializeRequest, data []byte) (*Materialized, error) {
	res := &Materialized{Outcome: Describe(data)}

	if req.Path != "" {
		url, err := m.Save(ctx, req.Path, data, req.Format)
		if err != nil {
			m.RecordFailure(ctx, req, err)
			return res, err
		}
		res.Outcome.Path = req.Path
		res.MirrorURL = url
	}

	if req.Display {
		res.DisplayErr = m.Show(ctx, data)
		res.Displayed = res.DisplayErr == nil
	}

	m.record(ctx, &domain.CaptureRecord{
		Kind:    req.Kind,
		JobID:   req.JobID,
		URL:     req.URL,
		Success: true,
		Path:    res.Outcome.Path,
		Size:    res.Outcome.Size,
		Width:   res.Outcome.Width,
		Height:  res.Outcome.Height,
	})
	return res, nil
}

// RecordFailure stores a failed capture in history, if enabled.
func (m *Materializer) RecordFailure(ctx context.Context, req MaterializeRequest, cause error) {
	msg := domain.UnknownErrorMessage
	if cause != nil {
		msg = cause.Error()
	}
	m.record(ctx, &domain.CaptureRecord{
		Kind:  req.Kind,
		JobID: req.JobID,
		URL:   req.URL,
		Path:  req.Path,
		Error: msg,
	})
}

func (m *Materializer) record(ctx context.Context, rec *domain.CaptureRecord) {
	if m.history == nil {
		return
	}
	// History must survive a cancelled run
	if err := m.history.Record(context.WithoutCancel(ctx), rec); err != nil {
		m.log(ctx).WithError(err).Warn("Failed to record capture history")
	}
}
