package service

import (
	"context"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
	"github.com/timmy/shotctl/internal/storage"
)

// ComposeService renders several pages into one image.
type ComposeService struct {
	api    ComposeAPI
	mat    *Materializer
	logger *logger.Logger
}

// NewComposeService creates a new ComposeService.
func NewComposeService(api ComposeAPI, mat *Materializer, log *logger.Logger) *ComposeService {
	return &ComposeService{api: api, mat: mat, logger: log}
}

// ComposeOptions controls what happens to the rendered composition.
type ComposeOptions struct {
	OutputPath string
	Display    bool
}

// ComposeOutcome is the remote result plus, when it was downloaded, what was
// done with the bytes.
type ComposeOutcome struct {
	Result *domain.ComposeResult
	Local  *Materialized
}

// Compose submits req and downloads the result when it should be saved or
// shown. A composition without a result URL is reported as is.
// Returns:
//   - *ComposeOutcome: always set when the remote call succeeded.
//   - error: a remote error, or a download or write error.
func (s *ComposeService) Compose(ctx context.Context, req domain.ComposeRequest, opts ComposeOptions) (*ComposeOutcome, error) {
	log := logger.FromContextOr(ctx, s.logger)
	res, err := s.api.Compose(ctx, req)
	if err != nil {
		return nil, err
	}
	out := &ComposeOutcome{Result: res}
	log.WithField(logger.FieldCount, len(req.Captures)).
		WithField(logger.FieldURL, res.URL).
		Info("Composition rendered")

	if res.URL == "" || (opts.OutputPath == "" && !opts.Display) {
		return out, nil
	}

	mreq := MaterializeRequest{
		Kind:    domain.CaptureKindCompose,
		URL:     res.URL,
		Path:    opts.OutputPath,
		Display: opts.Display,
	}
	data, err := s.api.Download(ctx, res.URL)
	if err != nil {
		s.mat.RecordFailure(ctx, mreq, err)
		return out, err
	}
	mreq.Format = storage.DetectFormat(data)
	out.Local, err = s.mat.Materialize(ctx, mreq, data)
	return out, err
}
