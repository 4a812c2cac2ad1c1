package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
	"github.com/timmy/shotctl/internal/storage"
	"golang.org/x/sync/errgroup"
)

// BatchOrchestrator runs a bulk job end to end: submit, poll the aggregate
// status, then download and save each finished item.
type BatchOrchestrator struct {
	api              BulkAPI
	mat              *Materializer
	logger           *logger.Logger
	pollInterval     time.Duration
	concurrency      int
	terminalStatuses map[string]struct{}
}

// BatchConfig holds orchestration settings.
type BatchConfig struct {
	PollInterval     time.Duration
	Concurrency      int      // download workers; values below 1 mean 1
	TerminalStatuses []string // exact, case-sensitive; empty uses the defaults
}

// NewBatchOrchestrator creates a new BatchOrchestrator.
func NewBatchOrchestrator(api BulkAPI, mat *Materializer, log *logger.Logger, cfg BatchConfig) *BatchOrchestrator {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	statuses := cfg.TerminalStatuses
	if len(statuses) == 0 {
		statuses = domain.DefaultBulkTerminalStatuses()
	}
	terminal := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		terminal[s] = struct{}{}
	}

	return &BatchOrchestrator{
		api:              api,
		mat:              mat,
		logger:           log,
		pollInterval:     interval,
		concurrency:      concurrency,
		terminalStatuses: terminal,
	}
}

func (b *BatchOrchestrator) log(ctx context.Context) *logger.Logger {
	return logger.FromContextOr(ctx, b.logger)
}

// BatchRequest is the user input for one batch run.
type BatchRequest struct {
	URLs      []string
	Format    domain.ImageFormat
	Device    string
	FullPage  bool
	OutputDir string
}

// BatchHooks receive progress events. Every field is optional.
type BatchHooks struct {
	OnCreated func(job *domain.BulkJob)
	// NewProgress is called once after creation with the number of URLs.
	NewProgress func(total int) Progress
	// OnItem is called once per item, in service order. Calls never overlap.
	OnItem func(item ItemResult)
}

// ItemResult is the reconciled outcome of one bulk sub-job.
type ItemResult struct {
	Index int
	Item  domain.BulkJobItem
	Path  string // set on success
	Size  int
	Err   error // nil on success
}

// Succeeded reports whether the item was downloaded and saved.
func (r ItemResult) Succeeded() bool {
	return r.Err == nil
}

// BatchReport summarizes a finished batch.
type BatchReport struct {
	JobID     string
	Status    string
	Requested int
	Total     int
	Succeeded int
	Failed    int
	OutputDir string
	Items     []ItemResult // in service order
}

// NoResultError is the failure of a completed item that has no result reference.
type NoResultError struct {
	URL string
}

func (e *NoResultError) Error() string {
	return fmt.Sprintf("No result URL for %s", e.URL)
}

// ItemFailedError carries the service's message for an item that did not complete.
type ItemFailedError struct {
	URL     string
	Status  string
	Message string
}

func (e *ItemFailedError) Error() string {
	return e.Message
}

// Run validates the request, submits it and reconciles every item. Item
// failures are collected in the report; only a batch in which every item
// failed returns domain.ErrAllItemsFailed. A terminal job with no items
// succeeds with an empty report.
// Parameters:
//   - ctx: cancels polling and downloads; files already written are kept.
//   - req: URLs and shared capture options.
//   - hooks: optional progress callbacks.
// Returns:
//   - *BatchReport: per-item results; nil when validation or submission fails.
//   - error: validation error, remote error, ctx.Err() or domain.ErrAllItemsFailed.
func (b *BatchOrchestrator) Run(ctx context.Context, req BatchRequest, hooks BatchHooks) (*BatchReport, error) {
	urls, format, err := validateBatch(req)
	if err != nil {
		return nil, err
	}

	bulkReq := domain.NewBulkRequest(urls, domain.BulkDefaults{
		Device:   req.Device,
		Format:   format,
		FullPage: req.FullPage,
	})
	created, err := b.api.CreateBulkJob(ctx, *bulkReq)
	if err != nil {
		return nil, err
	}
	ctx = logger.SetBulkJobID(b.log(ctx).WithContext(ctx), created.ID)
	logger.With(logger.Fields{}).WithCount(len(urls)).Info(ctx, "Bulk job created")
	if hooks.OnCreated != nil {
		hooks.OnCreated(created)
	}

	final, err := b.poll(ctx, created.ID, len(urls), hooks)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{
		JobID:     created.ID,
		Status:    final.Status,
		Requested: len(urls),
		Total:     len(final.Jobs),
		OutputDir: req.OutputDir,
	}
	report.Items = b.reconcile(ctx, final.Jobs, req.OutputDir, format, hooks)

	for _, item := range report.Items {
		if item.Succeeded() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	logger.With(logger.Fields{
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
	}).WithStatus(report.Status).Info(ctx, "Batch finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if report.Succeeded == 0 && report.Failed > 0 {
		return report, domain.ErrAllItemsFailed
	}
	return report, nil
}

func validateBatch(req BatchRequest) ([]string, domain.ImageFormat, error) {
	if len(req.URLs) == 0 {
		return nil, "", domain.ErrNoURLs
	}
	urls, err := domain.NormalizeURLs(req.URLs)
	if err != nil {
		return nil, "", err
	}
	if len(urls) > domain.MaxBulkURLs {
		return nil, "", &domain.TooManyURLsError{Count: len(urls), Max: domain.MaxBulkURLs}
	}
	format, err := domain.ParseImageFormat(string(req.Format), true)
	if err != nil {
		return nil, "", err
	}
	return urls, format, nil
}

// poll fetches the aggregate status every interval until it is terminal.
func (b *BatchOrchestrator) poll(ctx context.Context, bulkID string, total int, hooks BatchHooks) (*domain.BulkJob, error) {
	var progress Progress
	if hooks.NewProgress != nil {
		progress = hooks.NewProgress(total)
		defer progress.Finish()
	}

	for {
		if err := sleepCtx(ctx, b.pollInterval); err != nil {
			return nil, err
		}

		status, err := b.api.GetBulkJob(ctx, bulkID)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			progress.Set(status.CompletedJobs)
		}
		b.log(ctx).WithField(logger.FieldStatus, status.Status).Debugf("Bulk progress %d/%d", status.CompletedJobs, status.TotalJobs)

		if _, ok := b.terminalStatuses[status.Status]; ok {
			return status, nil
		}
	}
}

// reconcile resolves every item. Downloads run on at most b.concurrency
// workers; results are stored by index and handed to OnItem in service
// order, each as soon as every earlier item has been reported.
func (b *BatchOrchestrator) reconcile(ctx context.Context, items []domain.BulkJobItem, outputDir string, format domain.ImageFormat, hooks BatchHooks) []ItemResult {
	results := make([]ItemResult, len(items))
	done := make([]bool, len(items))
	next := 0
	var mu sync.Mutex
	report := func(r ItemResult) {
		mu.Lock()
		defer mu.Unlock()
		results[r.Index] = r
		done[r.Index] = true
		for next < len(items) && done[next] {
			if hooks.OnItem != nil {
				hooks.OnItem(results[next])
			}
			next++
		}
	}

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, item := range items {
		i, item := i, item
		mreq := MaterializeRequest{
			Kind:   domain.CaptureKindBatch,
			JobID:  item.ID,
			URL:    item.URL,
			Format: format,
		}

		if item.Status != domain.BulkStatusCompleted {
			msg := item.ErrorMessage
			if msg == "" {
				msg = domain.UnknownErrorMessage
			}
			err := &ItemFailedError{URL: item.URL, Status: item.Status, Message: msg}
			b.mat.RecordFailure(ctx, mreq, err)
			report(ItemResult{Index: i, Item: item, Err: err})
			continue
		}
		if item.ResultURL == "" {
			err := &NoResultError{URL: item.URL}
			b.mat.RecordFailure(ctx, mreq, err)
			report(ItemResult{Index: i, Item: item, Err: err})
			continue
		}

		mreq.Path = storage.BatchFileName(outputDir, i, item.URL, format)
		if b.concurrency == 1 {
			report(b.download(ctx, i, item, mreq))
			continue
		}
		g.Go(func() error {
			report(b.download(ctx, i, item, mreq))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (b *BatchOrchestrator) download(ctx context.Context, index int, item domain.BulkJobItem, mreq MaterializeRequest) ItemResult {
	res := ItemResult{Index: index, Item: item}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	data, err := b.api.GetJobResult(ctx, item.ID)
	if err != nil {
		b.mat.RecordFailure(ctx, mreq, err)
		res.Err = fmt.Errorf("failed to download: %w", err)
		return res
	}

	mat, err := b.mat.Materialize(ctx, mreq, data)
	if err != nil {
		res.Err = fmt.Errorf("failed to save: %w", err)
		return res
	}
	res.Path = mat.Outcome.Path
	res.Size = mat.Outcome.Size
	return res
}
