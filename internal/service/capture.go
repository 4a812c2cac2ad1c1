package service

import (
	"context"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
)

// CaptureService takes one synchronous screenshot.
type CaptureService struct {
	api    CaptureAPI
	mat    *Materializer
	logger *logger.Logger
}

// NewCaptureService creates a new CaptureService.
func NewCaptureService(api CaptureAPI, mat *Materializer, log *logger.Logger) *CaptureService {
	return &CaptureService{api: api, mat: mat, logger: log}
}

// CaptureOptions controls what happens to the screenshot.
type CaptureOptions struct {
	OutputPath string
	Display    bool
}

// Run validates req, captures it and materializes the bytes.
func (s *CaptureService) Run(ctx context.Context, req domain.CaptureRequest, opts CaptureOptions) (*Materialized, error) {
	req, err := validateCaptureRequest(req, true)
	if err != nil {
		return nil, err
	}

	ctx = logger.FromContextOr(ctx, s.logger).WithField(logger.FieldURL, req.URL).WithContext(ctx)
	mreq := MaterializeRequest{
		Kind:    domain.CaptureKindSync,
		URL:     req.URL,
		Format:  req.Format,
		Path:    opts.OutputPath,
		Display: opts.Display,
	}

	data, err := s.api.Screenshot(ctx, req)
	if err != nil {
		s.mat.RecordFailure(ctx, mreq, err)
		return nil, err
	}
	return s.mat.Materialize(ctx, mreq, data)
}
